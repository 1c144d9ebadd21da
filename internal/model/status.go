package model

import (
	"errors"
	"fmt"
	"slices"
)

var ErrInvalidTransition = errors.New("invalid status transition")

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusAnswered Status = "Answered"
)

// Normalized treats a missing status as Pending.
func (s Status) Normalized() Status {
	if s == "" {
		return StatusPending
	}
	return s
}

// Transitions maps a status to the statuses it may move to. Statuses without
// an entry are terminal.
type Transitions map[Status][]Status

var (
	// FileReview is the study file review lifecycle. Rejected is reachable here
	// but no operation currently produces it.
	FileReview = Transitions{
		StatusPending: {StatusApproved, StatusRejected},
	}

	MentorReview = Transitions{
		StatusPending: {StatusApproved, StatusRejected},
	}

	DoubtLifecycle = Transitions{
		StatusPending: {StatusAnswered},
	}
)

func (t Transitions) Allows(from, to Status) bool {
	return slices.Contains(t[from.Normalized()], to)
}

// Check returns ErrInvalidTransition when from cannot move to to.
func (t Transitions) Check(from, to Status) error {
	if t.Allows(from, to) {
		return nil
	}
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from.Normalized(), to)
}
