package models

type InviteAgentRequest struct {
	Notes string `json:"notes,omitempty"`
}

type RequestEnrollmentRequest struct {
	Notes string `json:"notes,omitempty"`
}

type DecisionRequest struct {
	Notes string `json:"notes,omitempty"`
}

type RejectRequest struct {
	Reason string `json:"reason,omitempty"`
}

type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

type ComputeMatchRequest struct {
	AgentID string   `json:"agentId"`
	GigID   string   `json:"gigId"`
	Weights *Weights `json:"weights,omitempty"`
}

// RelationshipView is one entry of the denormalized relationship view,
// rebuilt from the canonical GigAgent collection on read.
type RelationshipView struct {
	RelationshipID   string           `json:"relationshipId"`
	AgentID          string           `json:"agentId"`
	GigID            string           `json:"gigId"`
	EnrollmentStatus EnrollmentStatus `json:"enrollmentStatus"`
	Status           CoarseStatus     `json:"status"`
	MatchScore       float64          `json:"matchScore"`
	CreatedAt        int64            `json:"createdAt"`
	UpdatedAt        int64            `json:"updatedAt"`
}

type ExpireSweepResult struct {
	Expired int `json:"expired"`
}
