// Package lifecycle holds the authoritative enrollment state machine for
// a relationship record. Services validate every transition here before
// mutating anything, so an invalid attempt can never leave a half-applied
// record behind.
package lifecycle

import (
	"matching-service/internal/models"
)

type Action string

const (
	ActionInvite           Action = "invite"
	ActionRequest          Action = "request enrollment"
	ActionAcceptInvitation Action = "accept invitation"
	ActionRejectInvitation Action = "reject invitation"
	ActionAcceptRequest    Action = "accept enrollment request"
	ActionRejectRequest    Action = "reject enrollment request"
	ActionCancel           Action = "cancel"
	ActionExpire           Action = "expire"
)

// transitions maps each action to its permitted source states and the
// resulting state. RejectInvitation is the one deleting action: the
// record is removed outright instead of moving to a status, so its target
// state is None.
var transitions = map[Action]struct {
	from []models.EnrollmentStatus
	to   models.EnrollmentStatus
}{
	ActionInvite: {
		from: []models.EnrollmentStatus{models.EnrollmentStatusNone},
		to:   models.EnrollmentStatusInvited,
	},
	ActionRequest: {
		from: []models.EnrollmentStatus{
			models.EnrollmentStatusNone,
			models.EnrollmentStatusRejected,
			models.EnrollmentStatusExpired,
			models.EnrollmentStatusCancelled,
		},
		to: models.EnrollmentStatusRequested,
	},
	ActionAcceptInvitation: {
		from: []models.EnrollmentStatus{models.EnrollmentStatusInvited},
		to:   models.EnrollmentStatusEnrolled,
	},
	ActionRejectInvitation: {
		from: []models.EnrollmentStatus{models.EnrollmentStatusInvited},
		to:   models.EnrollmentStatusNone,
	},
	ActionAcceptRequest: {
		from: []models.EnrollmentStatus{models.EnrollmentStatusRequested},
		to:   models.EnrollmentStatusEnrolled,
	},
	ActionRejectRequest: {
		from: []models.EnrollmentStatus{models.EnrollmentStatusRequested},
		to:   models.EnrollmentStatusRejected,
	},
	ActionCancel: {
		from: []models.EnrollmentStatus{
			models.EnrollmentStatusInvited,
			models.EnrollmentStatusRequested,
		},
		to: models.EnrollmentStatusCancelled,
	},
	ActionExpire: {
		from: []models.EnrollmentStatus{
			models.EnrollmentStatusInvited,
			models.EnrollmentStatusRequested,
		},
		to: models.EnrollmentStatusExpired,
	},
}

// Apply returns the state resulting from an action, or a StateError when
// the action is not permitted from the current state.
func Apply(current models.EnrollmentStatus, action Action) (models.EnrollmentStatus, error) {
	rule, ok := transitions[action]
	if !ok {
		return current, models.NewStateError(current, string(action))
	}
	for _, from := range rule.from {
		if current == from {
			return rule.to, nil
		}
	}
	return current, models.NewStateError(current, string(action))
}

// Can reports whether the action is permitted from the current state.
func Can(current models.EnrollmentStatus, action Action) bool {
	_, err := Apply(current, action)
	return err == nil
}

// Deletes reports whether the action removes the record instead of
// transitioning it.
func Deletes(action Action) bool {
	return action == ActionRejectInvitation
}
