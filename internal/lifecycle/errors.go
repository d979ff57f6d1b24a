package lifecycle

import (
	"errors"
	"fmt"

	"peerlearn-be/internal/entity"
)

// ErrNotFound is returned when a session id does not resolve.
var ErrNotFound = errors.New("session not found")

// InvalidTransitionError reports an operation attempted from a status it is
// not legal from. The session is left unchanged.
type InvalidTransitionError struct {
	Current     entity.SessionStatus
	Op          Operation
	AllowedFrom []entity.SessionStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s session in status %q (allowed from: %v)", e.Op, e.Current, e.AllowedFrom)
}

// UnauthorizedError reports that the acting user is not a permitted party for
// the operation.
type UnauthorizedError struct {
	Op       Operation
	Required string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("only the %s may %s this session", e.Required, e.Op)
}

// AlreadyCompletedError signals a duplicate completion. The first writer won;
// the caller observes the completed session without side effects re-applying.
type AlreadyCompletedError struct {
	SessionId string
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("session %s is already completed", e.SessionId)
}

// DependencyFailure records a best-effort side effect that failed after the
// authoritative status write succeeded. It is reported as a warning, never as
// a hard failure, and never rolls the status back.
type DependencyFailure struct {
	Step string
	Err  error
}

func (e *DependencyFailure) Error() string {
	return fmt.Sprintf("side effect %q failed: %v", e.Step, e.Err)
}

func (e *DependencyFailure) Unwrap() error {
	return e.Err
}
