// Package lifecycle defines the status enumerations for hunts and task
// assignments and the transition rules every mutating operation consults.
package lifecycle

import "fmt"

type HuntStatus string

const (
	HuntPending   HuntStatus = "PENDING"
	HuntPublished HuntStatus = "PUBLISHED"
	HuntStarted   HuntStatus = "STARTED"
	HuntFinished  HuntStatus = "FINISHED"
)

// huntOrder maps each hunt status to its position in the forward-only
// progression PENDING -> PUBLISHED -> STARTED -> FINISHED.
var huntOrder = map[HuntStatus]int{
	HuntPending:   0,
	HuntPublished: 1,
	HuntStarted:   2,
	HuntFinished:  3,
}

// ParseHuntStatus validates a raw status string.
func ParseHuntStatus(s string) (HuntStatus, error) {
	st := HuntStatus(s)
	if _, ok := huntOrder[st]; !ok {
		return "", fmt.Errorf("unrecognized hunt status %q", s)
	}
	return st, nil
}

// CanTransitionTo reports whether a hunt may move from s to next. Only
// forward moves are allowed; setting the current status again is a no-op
// and allowed.
func (s HuntStatus) CanTransitionTo(next HuntStatus) bool {
	from, ok := huntOrder[s]
	if !ok {
		return false
	}
	to, ok := huntOrder[next]
	if !ok {
		return false
	}
	return to >= from
}

type AssignmentStatus string

const (
	// AssignmentIncomplete is the state rows are created in when a hunt
	// starts. For transition purposes it is equivalent to
	// AssignmentPending: both mean "not yet submitted".
	AssignmentIncomplete AssignmentStatus = "INCOMPLETE"
	AssignmentPending    AssignmentStatus = "PENDING"
	AssignmentSubmitted  AssignmentStatus = "SUBMITTED"
	AssignmentCompleted  AssignmentStatus = "COMPLETED"
)

// assignmentTransitions is the allowed-move table for task assignments:
// submit takes an unsubmitted assignment to SUBMITTED, approve takes
// SUBMITTED to COMPLETED, reject returns SUBMITTED to PENDING.
var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentIncomplete: {AssignmentSubmitted},
	AssignmentPending:    {AssignmentSubmitted},
	AssignmentSubmitted:  {AssignmentCompleted, AssignmentPending},
	AssignmentCompleted:  {},
}

// CanTransitionTo reports whether an assignment may move from s to next.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	for _, allowed := range assignmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
