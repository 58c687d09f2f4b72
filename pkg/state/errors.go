package state

import (
	"errors"
	"fmt"
)

// InvalidUpdateError rejects a proposed update before it touches game state.
// It is non-fatal: the engine keeps the narration, drops the delta, and the
// player sees the turn fizzle.
type InvalidUpdateError struct {
	Reason string
}

func (e *InvalidUpdateError) Error() string {
	return fmt.Sprintf("invalid update: %s", e.Reason)
}

func rejectf(format string, args ...any) error {
	return &InvalidUpdateError{Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidUpdate reports whether err is a validation rejection.
func IsInvalidUpdate(err error) bool {
	var iu *InvalidUpdateError
	return errors.As(err, &iu)
}

// InvalidStateError means the game state failed an invariant check after an
// update was applied. This should never happen for a validated update; it is
// fatal for the turn.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid game state: %s", e.Reason)
}

// IsInvalidState reports whether err is a post-apply invariant failure.
func IsInvalidState(err error) bool {
	var is *InvalidStateError
	return errors.As(err, &is)
}
