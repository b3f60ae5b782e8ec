package matching

import (
	"matching-service/internal/models"
)

// Engine combines the eight dimension scorers into one composite score
// and status bucket. Scoring is pure and in-memory; persistence and side
// effects live in the service layer.
type Engine struct {
	weights models.Weights
}

// NewEngine validates the weight vector, falling back to the canonical
// default when the caller passes a zero vector.
func NewEngine(weights models.Weights) (*Engine, error) {
	if weights.IsZero() {
		weights = models.DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Engine{weights: weights}, nil
}

func (e *Engine) Weights() models.Weights {
	return e.weights
}

// Score computes the full match result for one agent and gig pair.
func (e *Engine) Score(agent *models.AgentProfile, gig *models.GigProfile) models.MatchResult {
	details := models.MatchDetails{
		Language:     ScoreLanguages(agent, gig),
		Skills:       ScoreSkills(agent, gig),
		Industry:     ScoreIndustry(agent, gig),
		Activity:     ScoreActivities(agent, gig),
		Experience:   ScoreExperience(agent, gig),
		Timezone:     ScoreTimezone(agent, gig),
		Region:       ScoreRegion(agent, gig),
		Availability: ScoreAvailability(agent, gig),
	}

	composite := e.weights.Language*details.Language.Score +
		e.weights.Skills*details.Skills.Score +
		e.weights.Industry*details.Industry.Score +
		e.weights.Activity*details.Activity.Score +
		e.weights.Experience*details.Experience.Score +
		e.weights.Timezone*details.Timezone.Score +
		e.weights.Region*details.Region.Score +
		e.weights.Availability*details.Availability.Score

	return models.MatchResult{
		Score:   composite,
		Status:  overallStatus(composite, details),
		Details: details,
	}
}

// overallStatus buckets the composite score, with two override rules:
// fully matched language, skills and industry force a perfect match at a
// high composite, and language plus skills both absent force no match.
func overallStatus(composite float64, d models.MatchDetails) models.MatchStatus {
	if d.Language.Status == models.MatchStatusPerfect &&
		d.Skills.Status == models.MatchStatusPerfect &&
		d.Industry.Score == 1.0 &&
		composite >= 0.8 {
		return models.MatchStatusPerfect
	}
	if d.Language.Status == models.MatchStatusNone && d.Skills.Status == models.MatchStatusNone {
		return models.MatchStatusNone
	}
	switch {
	case composite >= 0.9:
		return models.MatchStatusPerfect
	case composite >= 0.5:
		return models.MatchStatusPartial
	case composite > 0:
		return models.MatchStatusLow
	default:
		return models.MatchStatusNone
	}
}
