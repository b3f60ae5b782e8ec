package models

type MatchStatus string

const (
	MatchStatusPerfect MatchStatus = "perfect_match"
	MatchStatusPartial MatchStatus = "partial_match"
	MatchStatusLow     MatchStatus = "low_match"
	MatchStatusNone    MatchStatus = "no_match"
)

type EnrollmentStatus string

const (
	// EnrollmentStatusNone represents the absence of a relationship record.
	EnrollmentStatusNone      EnrollmentStatus = ""
	EnrollmentStatusInvited   EnrollmentStatus = "invited"
	EnrollmentStatusRequested EnrollmentStatus = "requested"
	EnrollmentStatusEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentStatusRejected  EnrollmentStatus = "rejected"
	EnrollmentStatusExpired   EnrollmentStatus = "expired"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

// CoarseStatus is the coarse lifecycle view derived from EnrollmentStatus.
// It is never stored or written independently.
type CoarseStatus string

const (
	CoarseStatusPending CoarseStatus = "pending"
	CoarseStatusActive  CoarseStatus = "active"
	CoarseStatusClosed  CoarseStatus = "closed"
)

func (s EnrollmentStatus) Coarse() CoarseStatus {
	switch s {
	case EnrollmentStatusInvited, EnrollmentStatusRequested:
		return CoarseStatusPending
	case EnrollmentStatusEnrolled:
		return CoarseStatusActive
	default:
		return CoarseStatusClosed
	}
}

// IsTerminal reports whether the status allows a fresh enrollment request
// for the same agent and gig pair.
func (s EnrollmentStatus) IsTerminal() bool {
	switch s {
	case EnrollmentStatusRejected, EnrollmentStatusExpired, EnrollmentStatusCancelled:
		return true
	}
	return false
}

type SkillCategory string

const (
	SkillCategoryTechnical    SkillCategory = "technical"
	SkillCategoryProfessional SkillCategory = "professional"
	SkillCategorySoft         SkillCategory = "soft"
)
