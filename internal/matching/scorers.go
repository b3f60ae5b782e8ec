package matching

import (
	"fmt"

	"matching-service/internal/models"
	"matching-service/internal/reference"
)

// Proficiency ordinal scale. Native sits above C2; a "native" requirement
// is only satisfied by a native or top-tier (C2) level.
var languageLevels = map[string]int{
	"a1":     1,
	"a2":     2,
	"b1":     3,
	"b2":     4,
	"c1":     5,
	"c2":     6,
	"native": 7,
}

func languageOrdinal(level string) int {
	return languageLevels[reference.Canonical(level)]
}

func isNativeRequirement(level string) bool {
	return reference.Canonical(level) == "native"
}

// ScoreLanguages scores gig language requirements against the agent's
// languages. Score is matched/required; with no required languages the
// dimension is defined as 0, not 1.
func ScoreLanguages(agent *models.AgentProfile, gig *models.GigProfile) models.DimensionScore {
	if len(gig.RequiredLanguages) == 0 {
		return models.DimensionScore{
			Score:  0,
			Status: models.MatchStatusNone,
			Reason: "no languages required",
		}
	}

	ds := models.DimensionScore{}
	matched := 0
	for _, req := range gig.RequiredLanguages {
		label := req.Language.Label()
		found := false
		for _, have := range agent.Languages {
			if !reference.SameKey(req.Language, have.Language) {
				continue
			}
			found = true
			if languageSatisfies(have.Level, req.MinLevel) {
				matched++
				ds.Matched = append(ds.Matched, label)
			} else {
				ds.Insufficient = append(ds.Insufficient, fmt.Sprintf("%s (%s < %s)", label, have.Level, req.MinLevel))
			}
			break
		}
		if !found {
			ds.Missing = append(ds.Missing, label)
		}
	}

	ds.Score = float64(matched) / float64(len(gig.RequiredLanguages))
	switch {
	case matched == len(gig.RequiredLanguages):
		ds.Status = models.MatchStatusPerfect
	case matched > 0:
		ds.Status = models.MatchStatusPartial
	default:
		ds.Status = models.MatchStatusNone
	}
	return ds
}

func languageSatisfies(have, required string) bool {
	if isNativeRequirement(required) {
		ord := languageOrdinal(have)
		return ord >= languageLevels["c2"]
	}
	haveOrd := languageOrdinal(have)
	reqOrd := languageOrdinal(required)
	if haveOrd == 0 || reqOrd == 0 {
		return false
	}
	return haveOrd >= reqOrd
}

// ScoreSkills scores all three skill categories together. A requirement
// matches on canonical key within the same category; the recorded level
// does not gate the match.
func ScoreSkills(agent *models.AgentProfile, gig *models.GigProfile) models.DimensionScore {
	required := gig.RequiredSkillsByCategory()
	held := agent.SkillsByCategory()

	total := 0
	matched := 0
	ds := models.DimensionScore{}

	for _, category := range []models.SkillCategory{
		models.SkillCategoryTechnical,
		models.SkillCategoryProfessional,
		models.SkillCategorySoft,
	} {
		for _, req := range required[category] {
			total++
			label := fmt.Sprintf("%s (%s)", req.Skill.Label(), category)
			if hasSkill(held[category], req.Skill) {
				matched++
				ds.Matched = append(ds.Matched, label)
			} else {
				ds.Missing = append(ds.Missing, label)
			}
		}
	}

	if total == 0 {
		ds.Score = 0
		ds.Status = models.MatchStatusNone
		ds.Reason = "no skills required"
		return ds
	}

	ds.Score = float64(matched) / float64(total)
	switch {
	case matched == total:
		ds.Status = models.MatchStatusPerfect
	case matched > 0:
		ds.Status = models.MatchStatusPartial
	default:
		ds.Status = models.MatchStatusNone
	}
	return ds
}

func hasSkill(entries []models.SkillEntry, want reference.Ref) bool {
	for _, e := range entries {
		if reference.SameKey(e.Skill, want) {
			return true
		}
	}
	return false
}

// ScoreIndustry is binary: the gig's single industry category matches any
// of the agent's industries by key equality or bidirectional containment.
func ScoreIndustry(agent *models.AgentProfile, gig *models.GigProfile) models.DimensionScore {
	ds := models.DimensionScore{}
	if gig.Industry.Key() == "" {
		ds.Score = 0
		ds.Status = models.MatchStatusNone
		ds.Reason = "no industry specified"
		return ds
	}

	label := gig.Industry.Label()
	for _, ind := range agent.Industries {
		if reference.SameKey(gig.Industry, ind) || reference.Contains(gig.Industry, ind) {
			ds.Score = 1.0
			ds.Status = models.MatchStatusPerfect
			ds.Matched = append(ds.Matched, label)
			return ds
		}
	}

	ds.Score = 0
	ds.Status = models.MatchStatusNone
	ds.Missing = append(ds.Missing, label)
	return ds
}

// ScoreActivities applies the industry containment rule per required
// activity. All match 1.0, some match 0.5, none 0.0.
func ScoreActivities(agent *models.AgentProfile, gig *models.GigProfile) models.DimensionScore {
	ds := models.DimensionScore{}
	if len(gig.RequiredActivities) == 0 {
		ds.Score = 0
		ds.Status = models.MatchStatusNone
		ds.Reason = "no activities required"
		return ds
	}

	matched := 0
	for _, req := range gig.RequiredActivities {
		label := req.Label()
		ok := false
		for _, act := range agent.Activities {
			if reference.SameKey(req, act) || reference.Contains(req, act) {
				ok = true
				break
			}
		}
		if ok {
			matched++
			ds.Matched = append(ds.Matched, label)
		} else {
			ds.Missing = append(ds.Missing, label)
		}
	}

	switch {
	case matched == len(gig.RequiredActivities):
		ds.Score = 1.0
		ds.Status = models.MatchStatusPerfect
	case matched > 0:
		ds.Score = 0.5
		ds.Status = models.MatchStatusPartial
	default:
		ds.Score = 0
		ds.Status = models.MatchStatusNone
	}
	return ds
}

// ScoreExperience applies the tiered ratio table. Missing data on either
// side is an explicit neutral fallback, not an error.
func ScoreExperience(agent *models.AgentProfile, gig *models.GigProfile) models.DimensionScore {
	if agent.ExperienceYears == nil || gig.RequiredExperienceYears == nil || *gig.RequiredExperienceYears <= 0 {
		return models.DimensionScore{
			Score:  0.5,
			Status: models.MatchStatusNone,
			Reason: "missing experience data",
		}
	}

	have := *agent.ExperienceYears
	need := *gig.RequiredExperienceYears
	ds := models.DimensionScore{
		Reason: fmt.Sprintf("%.1f years offered, %.1f required", have, need),
	}

	if have >= need {
		switch {
		case have == need:
			ds.Score = 1.0
		case have <= 1.5*need:
			ds.Score = 0.9
		case have <= 2*need:
			ds.Score = 0.8
		default:
			ds.Score = 0.7
		}
		// Overqualification past the near-exact tiers is still a partial fit.
		if ds.Score >= 0.8 {
			ds.Status = models.MatchStatusPerfect
		} else {
			ds.Status = models.MatchStatusPartial
		}
		return ds
	}

	switch {
	case have >= 0.8*need:
		ds.Score = 0.6
	case have >= 0.6*need:
		ds.Score = 0.4
	case have >= 0.4*need:
		ds.Score = 0.2
	default:
		ds.Score = 0
	}
	if ds.Score == 0 {
		ds.Status = models.MatchStatusNone
	} else {
		ds.Status = models.MatchStatusPartial
	}
	return ds
}

// ScoreTimezone is exact-match 1.0 or a fixed lenient 0.7 for any
// mismatch; timezone distance is not modeled yet.
func ScoreTimezone(agent *models.AgentProfile, gig *models.GigProfile) models.DimensionScore {
	if agent.Timezone.Key() == "" || gig.Timezone.Key() == "" {
		return models.DimensionScore{
			Score:  0.5,
			Status: models.MatchStatusNone,
			Reason: "missing timezone data",
		}
	}
	if reference.SameKey(agent.Timezone, gig.Timezone) {
		return models.DimensionScore{
			Score:   1.0,
			Status:  models.MatchStatusPerfect,
			Matched: []string{gig.Timezone.Label()},
		}
	}
	return models.DimensionScore{
		Score:  0.7,
		Status: models.MatchStatusPartial,
		Reason: fmt.Sprintf("%s differs from %s but may be compatible", agent.Timezone.Label(), gig.Timezone.Label()),
	}
}

// ScoreRegion is a placeholder pending real geographic compatibility
// logic: 0.8 when the gig names a destination, 0.5 otherwise.
func ScoreRegion(agent *models.AgentProfile, gig *models.GigProfile) models.DimensionScore {
	if gig.DestinationRegion.Key() != "" {
		return models.DimensionScore{
			Score:  0.8,
			Status: models.MatchStatusPartial,
			Reason: fmt.Sprintf("destination %s, geographic scoring not implemented", gig.DestinationRegion.Label()),
		}
	}
	return models.DimensionScore{
		Score:  0.5,
		Status: models.MatchStatusPartial,
		Reason: "no destination region specified",
	}
}
