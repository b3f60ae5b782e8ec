package matching

import (
	"math"
	"testing"

	"matching-service/internal/models"
	"matching-service/internal/reference"
)

const epsilon = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func ref(name string) reference.Ref {
	return reference.Ref{Name: name}
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestScoreLanguages(t *testing.T) {
	tests := []struct {
		name           string
		agentLanguages []models.LanguageSkill
		required       []models.RequiredLanguage
		expectedScore  float64
		expectedStatus models.MatchStatus
	}{
		{
			name:           "no requirements scores zero",
			agentLanguages: []models.LanguageSkill{{Language: ref("English"), Level: "c2"}},
			required:       nil,
			expectedScore:  0,
			expectedStatus: models.MatchStatusNone,
		},
		{
			name:           "level above minimum matches",
			agentLanguages: []models.LanguageSkill{{Language: ref("English"), Level: "c1"}},
			required:       []models.RequiredLanguage{{Language: ref("English"), MinLevel: "b2"}},
			expectedScore:  1.0,
			expectedStatus: models.MatchStatusPerfect,
		},
		{
			name:           "exact level matches",
			agentLanguages: []models.LanguageSkill{{Language: ref("English"), Level: "b2"}},
			required:       []models.RequiredLanguage{{Language: ref("English"), MinLevel: "b2"}},
			expectedScore:  1.0,
			expectedStatus: models.MatchStatusPerfect,
		},
		{
			name:           "insufficient level does not match",
			agentLanguages: []models.LanguageSkill{{Language: ref("English"), Level: "b1"}},
			required:       []models.RequiredLanguage{{Language: ref("English"), MinLevel: "b2"}},
			expectedScore:  0,
			expectedStatus: models.MatchStatusNone,
		},
		{
			name:           "native satisfies native requirement",
			agentLanguages: []models.LanguageSkill{{Language: ref("Vietnamese"), Level: "native"}},
			required:       []models.RequiredLanguage{{Language: ref("Vietnamese"), MinLevel: "native"}},
			expectedScore:  1.0,
			expectedStatus: models.MatchStatusPerfect,
		},
		{
			name:           "c2 satisfies native requirement",
			agentLanguages: []models.LanguageSkill{{Language: ref("Vietnamese"), Level: "c2"}},
			required:       []models.RequiredLanguage{{Language: ref("Vietnamese"), MinLevel: "native"}},
			expectedScore:  1.0,
			expectedStatus: models.MatchStatusPerfect,
		},
		{
			name:           "c1 does not satisfy native requirement",
			agentLanguages: []models.LanguageSkill{{Language: ref("Vietnamese"), Level: "c1"}},
			required:       []models.RequiredLanguage{{Language: ref("Vietnamese"), MinLevel: "native"}},
			expectedScore:  0,
			expectedStatus: models.MatchStatusNone,
		},
		{
			name:           "unknown level never matches",
			agentLanguages: []models.LanguageSkill{{Language: ref("English"), Level: "fluent"}},
			required:       []models.RequiredLanguage{{Language: ref("English"), MinLevel: "b1"}},
			expectedScore:  0,
			expectedStatus: models.MatchStatusNone,
		},
		{
			name: "one of two matched is partial",
			agentLanguages: []models.LanguageSkill{
				{Language: ref("English"), Level: "c1"},
			},
			required: []models.RequiredLanguage{
				{Language: ref("English"), MinLevel: "b2"},
				{Language: ref("French"), MinLevel: "b1"},
			},
			expectedScore:  0.5,
			expectedStatus: models.MatchStatusPartial,
		},
		{
			name:           "case and punctuation insensitive lookup",
			agentLanguages: []models.LanguageSkill{{Language: ref("ENGLISH"), Level: "C1"}},
			required:       []models.RequiredLanguage{{Language: ref("english"), MinLevel: "B2"}},
			expectedScore:  1.0,
			expectedStatus: models.MatchStatusPerfect,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &models.AgentProfile{Languages: tt.agentLanguages}
			gig := &models.GigProfile{RequiredLanguages: tt.required}
			got := ScoreLanguages(agent, gig)
			if !floatEquals(got.Score, tt.expectedScore) {
				t.Errorf("Score = %v, expected %v", got.Score, tt.expectedScore)
			}
			if got.Status != tt.expectedStatus {
				t.Errorf("Status = %v, expected %v", got.Status, tt.expectedStatus)
			}
		})
	}
}

func TestScoreLanguagesBreakdown(t *testing.T) {
	agent := &models.AgentProfile{Languages: []models.LanguageSkill{
		{Language: ref("English"), Level: "c1"},
		{Language: ref("French"), Level: "a2"},
	}}
	gig := &models.GigProfile{RequiredLanguages: []models.RequiredLanguage{
		{Language: ref("English"), MinLevel: "b2"},
		{Language: ref("French"), MinLevel: "b1"},
		{Language: ref("German"), MinLevel: "a1"},
	}}

	got := ScoreLanguages(agent, gig)
	if len(got.Matched) != 1 || got.Matched[0] != "English" {
		t.Errorf("Matched = %v, expected [English]", got.Matched)
	}
	if len(got.Insufficient) != 1 {
		t.Errorf("Insufficient = %v, expected one entry for French", got.Insufficient)
	}
	if len(got.Missing) != 1 || got.Missing[0] != "German" {
		t.Errorf("Missing = %v, expected [German]", got.Missing)
	}
	if !floatEquals(got.Score, 1.0/3.0) {
		t.Errorf("Score = %v, expected 1/3", got.Score)
	}
}

func TestScoreSkills(t *testing.T) {
	tests := []struct {
		name           string
		agent          *models.AgentProfile
		gig            *models.GigProfile
		expectedScore  float64
		expectedStatus models.MatchStatus
	}{
		{
			name:           "no requirements scores zero",
			agent:          &models.AgentProfile{TechnicalSkills: []models.SkillEntry{{Skill: ref("Go")}}},
			gig:            &models.GigProfile{},
			expectedScore:  0,
			expectedStatus: models.MatchStatusNone,
		},
		{
			name: "all categories matched",
			agent: &models.AgentProfile{
				TechnicalSkills:    []models.SkillEntry{{Skill: ref("Go"), Level: 4}},
				ProfessionalSkills: []models.SkillEntry{{Skill: ref("Project Management"), Level: 3}},
				SoftSkills:         []models.SkillEntry{{Skill: ref("Communication"), Level: 5}},
			},
			gig: &models.GigProfile{
				RequiredTechnicalSkills:    []models.RequiredSkill{{Skill: ref("Go")}},
				RequiredProfessionalSkills: []models.RequiredSkill{{Skill: ref("Project Management")}},
				RequiredSoftSkills:         []models.RequiredSkill{{Skill: ref("Communication")}},
			},
			expectedScore:  1.0,
			expectedStatus: models.MatchStatusPerfect,
		},
		{
			name: "category boundaries are strict",
			agent: &models.AgentProfile{
				SoftSkills: []models.SkillEntry{{Skill: ref("Go")}},
			},
			gig: &models.GigProfile{
				RequiredTechnicalSkills: []models.RequiredSkill{{Skill: ref("Go")}},
			},
			expectedScore:  0,
			expectedStatus: models.MatchStatusNone,
		},
		{
			name: "level does not gate the match",
			agent: &models.AgentProfile{
				TechnicalSkills: []models.SkillEntry{{Skill: ref("Go"), Level: 1}},
			},
			gig: &models.GigProfile{
				RequiredTechnicalSkills: []models.RequiredSkill{{Skill: ref("Go"), MinLevel: 5}},
			},
			expectedScore:  1.0,
			expectedStatus: models.MatchStatusPerfect,
		},
		{
			name: "half matched is partial",
			agent: &models.AgentProfile{
				TechnicalSkills: []models.SkillEntry{{Skill: ref("Go")}},
			},
			gig: &models.GigProfile{
				RequiredTechnicalSkills: []models.RequiredSkill{{Skill: ref("Go")}, {Skill: ref("Rust")}},
			},
			expectedScore:  0.5,
			expectedStatus: models.MatchStatusPartial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreSkills(tt.agent, tt.gig)
			if !floatEquals(got.Score, tt.expectedScore) {
				t.Errorf("Score = %v, expected %v", got.Score, tt.expectedScore)
			}
			if got.Status != tt.expectedStatus {
				t.Errorf("Status = %v, expected %v", got.Status, tt.expectedStatus)
			}
		})
	}
}

func TestScoreIndustry(t *testing.T) {
	tests := []struct {
		name            string
		agentIndustries []reference.Ref
		gigIndustry     reference.Ref
		expectedScore   float64
	}{
		{"exact match", []reference.Ref{ref("Tourism")}, ref("Tourism"), 1.0},
		{"containment match", []reference.Ref{ref("Eco Tourism")}, ref("Tourism"), 1.0},
		{"reverse containment match", []reference.Ref{ref("Tourism")}, ref("Eco Tourism"), 1.0},
		{"no match", []reference.Ref{ref("Finance")}, ref("Tourism"), 0},
		{"no industry specified", []reference.Ref{ref("Tourism")}, reference.Ref{}, 0},
		{"agent has no industries", nil, ref("Tourism"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &models.AgentProfile{Industries: tt.agentIndustries}
			gig := &models.GigProfile{Industry: tt.gigIndustry}
			got := ScoreIndustry(agent, gig)
			if !floatEquals(got.Score, tt.expectedScore) {
				t.Errorf("Score = %v, expected %v", got.Score, tt.expectedScore)
			}
		})
	}
}

func TestScoreActivities(t *testing.T) {
	tests := []struct {
		name            string
		agentActivities []reference.Ref
		required        []reference.Ref
		expectedScore   float64
		expectedStatus  models.MatchStatus
	}{
		{
			name:            "all matched",
			agentActivities: []reference.Ref{ref("City Tours"), ref("Hiking")},
			required:        []reference.Ref{ref("City Tours"), ref("Hiking")},
			expectedScore:   1.0,
			expectedStatus:  models.MatchStatusPerfect,
		},
		{
			name:            "some matched is a flat half",
			agentActivities: []reference.Ref{ref("City Tours")},
			required:        []reference.Ref{ref("City Tours"), ref("Hiking"), ref("Diving")},
			expectedScore:   0.5,
			expectedStatus:  models.MatchStatusPartial,
		},
		{
			name:            "none matched",
			agentActivities: []reference.Ref{ref("Diving")},
			required:        []reference.Ref{ref("City Tours")},
			expectedScore:   0,
			expectedStatus:  models.MatchStatusNone,
		},
		{
			name:            "no requirements",
			agentActivities: []reference.Ref{ref("City Tours")},
			required:        nil,
			expectedScore:   0,
			expectedStatus:  models.MatchStatusNone,
		},
		{
			name:            "containment counts as a match",
			agentActivities: []reference.Ref{ref("Tours")},
			required:        []reference.Ref{ref("City Tours")},
			expectedScore:   1.0,
			expectedStatus:  models.MatchStatusPerfect,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &models.AgentProfile{Activities: tt.agentActivities}
			gig := &models.GigProfile{RequiredActivities: tt.required}
			got := ScoreActivities(agent, gig)
			if !floatEquals(got.Score, tt.expectedScore) {
				t.Errorf("Score = %v, expected %v", got.Score, tt.expectedScore)
			}
			if got.Status != tt.expectedStatus {
				t.Errorf("Status = %v, expected %v", got.Status, tt.expectedStatus)
			}
		})
	}
}

func TestScoreExperience(t *testing.T) {
	tests := []struct {
		name           string
		have           *float64
		need           *float64
		expectedScore  float64
		expectedStatus models.MatchStatus
	}{
		{"missing agent experience", nil, floatPtr(10), 0.5, models.MatchStatusNone},
		{"missing gig requirement", floatPtr(5), nil, 0.5, models.MatchStatusNone},
		{"zero requirement treated as missing", floatPtr(5), floatPtr(0), 0.5, models.MatchStatusNone},
		{"exact match", floatPtr(10), floatPtr(10), 1.0, models.MatchStatusPerfect},
		{"slightly over", floatPtr(12), floatPtr(10), 0.9, models.MatchStatusPerfect},
		{"upper edge of near tier", floatPtr(15), floatPtr(10), 0.9, models.MatchStatusPerfect},
		{"moderately over", floatPtr(18), floatPtr(10), 0.8, models.MatchStatusPerfect},
		{"heavily overqualified", floatPtr(25), floatPtr(10), 0.7, models.MatchStatusPartial},
		{"just under", floatPtr(9), floatPtr(10), 0.6, models.MatchStatusPartial},
		{"under at 70 percent", floatPtr(7), floatPtr(10), 0.4, models.MatchStatusPartial},
		{"under at half", floatPtr(5), floatPtr(10), 0.2, models.MatchStatusPartial},
		{"far under", floatPtr(2), floatPtr(10), 0, models.MatchStatusNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &models.AgentProfile{ExperienceYears: tt.have}
			gig := &models.GigProfile{RequiredExperienceYears: tt.need}
			got := ScoreExperience(agent, gig)
			if !floatEquals(got.Score, tt.expectedScore) {
				t.Errorf("Score = %v, expected %v", got.Score, tt.expectedScore)
			}
			if got.Status != tt.expectedStatus {
				t.Errorf("Status = %v, expected %v", got.Status, tt.expectedStatus)
			}
		})
	}
}

func TestScoreTimezone(t *testing.T) {
	tests := []struct {
		name           string
		agentTZ        reference.Ref
		gigTZ          reference.Ref
		expectedScore  float64
		expectedStatus models.MatchStatus
	}{
		{"same timezone", ref("UTC+7"), ref("UTC+7"), 1.0, models.MatchStatusPerfect},
		{"different timezone is lenient", ref("UTC+7"), ref("UTC+1"), 0.7, models.MatchStatusPartial},
		{"missing agent timezone", reference.Ref{}, ref("UTC+7"), 0.5, models.MatchStatusNone},
		{"missing gig timezone", ref("UTC+7"), reference.Ref{}, 0.5, models.MatchStatusNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &models.AgentProfile{Timezone: tt.agentTZ}
			gig := &models.GigProfile{Timezone: tt.gigTZ}
			got := ScoreTimezone(agent, gig)
			if !floatEquals(got.Score, tt.expectedScore) {
				t.Errorf("Score = %v, expected %v", got.Score, tt.expectedScore)
			}
			if got.Status != tt.expectedStatus {
				t.Errorf("Status = %v, expected %v", got.Status, tt.expectedStatus)
			}
		})
	}
}

func TestScoreRegion(t *testing.T) {
	withDestination := &models.GigProfile{DestinationRegion: ref("Da Nang")}
	got := ScoreRegion(&models.AgentProfile{}, withDestination)
	if !floatEquals(got.Score, 0.8) || got.Status != models.MatchStatusPartial {
		t.Errorf("with destination: got (%v, %v), expected (0.8, partial)", got.Score, got.Status)
	}

	got = ScoreRegion(&models.AgentProfile{}, &models.GigProfile{})
	if !floatEquals(got.Score, 0.5) || got.Status != models.MatchStatusPartial {
		t.Errorf("without destination: got (%v, %v), expected (0.5, partial)", got.Score, got.Status)
	}
}
