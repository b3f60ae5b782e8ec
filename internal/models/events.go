package models

type EventType string

const (
	EventTypeAgentInvited          EventType = "gigagent.invited"
	EventTypeEnrollmentRequested   EventType = "gigagent.requested"
	EventTypeAgentEnrolled         EventType = "gigagent.enrolled"
	EventTypeRequestRejected       EventType = "gigagent.rejected"
	EventTypeInvitationDeclined    EventType = "gigagent.invitation.declined"
	EventTypeRelationshipCancelled EventType = "gigagent.cancelled"
	EventTypeInvitationExpired     EventType = "gigagent.expired"
	EventTypeRelationshipRescored  EventType = "gigagent.rescored"

	// Consumed from the profile services.
	EventTypeAgentUpdated EventType = "agent.updated"
	EventTypeGigUpdated   EventType = "gig.updated"

	// Emitted toward the onboarding tracker.
	EventTypeOnboardingProgress EventType = "onboarding.enrollment.progress"
)

// GigAgentEvent is the payload published for every lifecycle transition
// and rescore on a relationship record.
type GigAgentEvent struct {
	EventType        EventType        `json:"eventType"`
	RelationshipID   string           `json:"relationshipId"`
	AgentID          string           `json:"agentId"`
	GigID            string           `json:"gigId"`
	EnrollmentStatus EnrollmentStatus `json:"enrollmentStatus,omitempty"`
	MatchScore       float64          `json:"matchScore,omitempty"`
	Timestamp        int64            `json:"timestamp"`
	OldValues        map[string]any   `json:"oldValues,omitempty"`
	NewValues        map[string]any   `json:"newValues,omitempty"`
}

// OnboardingEvent is the best-effort progress signal sent when an agent
// enrolls; failures are logged and swallowed.
type OnboardingEvent struct {
	EventType EventType `json:"eventType"`
	AgentID   string    `json:"agentId"`
	GigID     string    `json:"gigId"`
	Step      string    `json:"step"`
	Timestamp int64     `json:"timestamp"`
}
