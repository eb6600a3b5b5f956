package store

import (
	"errors"
	"fmt"
	"time"
)

// Typed failures returned by store operations. Callers distinguish them
// with errors.Is / errors.As; anything else is a storage fault surfaced
// unchanged.
var (
	ErrDuplicateName     = errors.New("an entity with this name already exists")
	ErrDuplicateEmail    = errors.New("a user with this email already exists")
	ErrNotFound          = errors.New("not found")
	ErrNoRelation        = errors.New("there is no relation between this task and team")
	ErrInvalidTransition = errors.New("the status transition is not allowed")
	ErrInvalidStatus     = errors.New("unrecognized status value")
	ErrUserAlreadyOnTeam = errors.New("user already has a team")
	ErrTeamFull          = errors.New("team is at its member limit")
	ErrAuthFailed        = errors.New("invalid email or password")
	ErrValidation        = errors.New("missing required field")
)

// TooEarlyError reports an attempt to start a hunt before its scheduled
// start time.
type TooEarlyError struct {
	StartsAt time.Time
}

func (e *TooEarlyError) Error() string {
	return fmt.Sprintf("hunt does not start until %s", e.StartsAt.Format(time.RFC3339))
}
