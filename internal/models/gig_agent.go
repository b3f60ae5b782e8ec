package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// DimensionScore is the per-dimension diagnostic record: the score in
// [0,1], a status tag, and the matched/missing/insufficient breakdown
// used to render a human-readable explanation.
type DimensionScore struct {
	Score        float64     `json:"score" bson:"score"`
	Status       MatchStatus `json:"status" bson:"status"`
	Matched      []string    `json:"matched,omitempty" bson:"matched,omitempty"`
	Missing      []string    `json:"missing,omitempty" bson:"missing,omitempty"`
	Insufficient []string    `json:"insufficient,omitempty" bson:"insufficient,omitempty"`
	Reason       string      `json:"reason,omitempty" bson:"reason,omitempty"`
}

type MatchDetails struct {
	Language     DimensionScore `json:"language" bson:"language"`
	Skills       DimensionScore `json:"skills" bson:"skills"`
	Industry     DimensionScore `json:"industry" bson:"industry"`
	Activity     DimensionScore `json:"activity" bson:"activity"`
	Experience   DimensionScore `json:"experience" bson:"experience"`
	Timezone     DimensionScore `json:"timezone" bson:"timezone"`
	Region       DimensionScore `json:"region" bson:"region"`
	Availability DimensionScore `json:"availability" bson:"availability"`
}

// MatchResult is the aggregation engine output for one agent and gig pair.
type MatchResult struct {
	Score   float64      `json:"score" bson:"score"`
	Status  MatchStatus  `json:"status" bson:"status"`
	Details MatchDetails `json:"details" bson:"details"`
}

// GigAgent is the canonical relationship record between one agent and one
// gig. At most one record exists per (agentId, gigId) pair, enforced by a
// unique compound index. EnrollmentStatus is the authoritative lifecycle
// field; the coarse status is derived from it.
type GigAgent struct {
	ID               bson.ObjectID    `json:"id,omitempty" bson:"_id,omitempty"`
	AgentID          bson.ObjectID    `json:"agentId" bson:"agentId"`
	GigID            bson.ObjectID    `json:"gigId" bson:"gigId"`
	MatchScore       float64          `json:"matchScore" bson:"matchScore"`
	MatchStatus      MatchStatus      `json:"matchStatus" bson:"matchStatus"`
	MatchDetails     MatchDetails     `json:"matchDetails" bson:"matchDetails"`
	EnrollmentStatus EnrollmentStatus `json:"enrollmentStatus" bson:"enrollmentStatus"`
	Weights          Weights          `json:"weights" bson:"weights"`
	Notes            string           `json:"notes,omitempty" bson:"notes,omitempty"`
	InvitedAt        int64            `json:"invitedAt,omitempty" bson:"invitedAt,omitempty"`
	RequestedAt      int64            `json:"requestedAt,omitempty" bson:"requestedAt,omitempty"`
	EnrolledAt       int64            `json:"enrolledAt,omitempty" bson:"enrolledAt,omitempty"`
	ClosedAt         int64            `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
	ExpiresAt        int64            `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	NotifiedAt       int64            `json:"notifiedAt,omitempty" bson:"notifiedAt,omitempty"`
	Metadata         Metadata         `json:"metadata" bson:"metadata"`
}

func (g *GigAgent) CoarseStatus() CoarseStatus {
	return g.EnrollmentStatus.Coarse()
}

// IsInvitationExpired reports whether the invitation window has passed.
func (g *GigAgent) IsInvitationExpired(now int64) bool {
	return g.EnrollmentStatus == EnrollmentStatusInvited && g.ExpiresAt > 0 && g.ExpiresAt < now
}
