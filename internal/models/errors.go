package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means an agent or gig id could not be resolved.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a relationship already exists for the pair.
	ErrConflict = errors.New("relationship already exists")
	// ErrValidation covers malformed weight vectors and schedules.
	ErrValidation = errors.New("validation failed")
)

// StateError reports a lifecycle transition that is not permitted from
// the record's current enrollment status. It never accompanies a mutation.
type StateError struct {
	Current EnrollmentStatus
	Action  string
}

func (e *StateError) Error() string {
	current := string(e.Current)
	if current == "" {
		current = "none"
	}
	return fmt.Sprintf("cannot %s from enrollment status %q", e.Action, current)
}

// NewStateError builds a StateError for the given action attempt.
func NewStateError(current EnrollmentStatus, action string) error {
	return &StateError{Current: current, Action: action}
}
