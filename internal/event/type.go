package event

import (
	"time"

	"matching-service/internal/models"
)

func NewGigAgentEvent(eventType models.EventType, rel *models.GigAgent) *models.GigAgentEvent {
	return &models.GigAgentEvent{
		EventType:        eventType,
		RelationshipID:   rel.ID.Hex(),
		AgentID:          rel.AgentID.Hex(),
		GigID:            rel.GigID.Hex(),
		EnrollmentStatus: rel.EnrollmentStatus,
		MatchScore:       rel.MatchScore,
		Timestamp:        time.Now().Unix(),
	}
}

func NewOnboardingProgressEvent(rel *models.GigAgent, step string) *models.OnboardingEvent {
	return &models.OnboardingEvent{
		EventType: models.EventTypeOnboardingProgress,
		AgentID:   rel.AgentID.Hex(),
		GigID:     rel.GigID.Hex(),
		Step:      step,
		Timestamp: time.Now().Unix(),
	}
}
