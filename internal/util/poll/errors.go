package poll

import (
	"errors"
	"fmt"
	"time"
)

// TimeoutError is returned when a resource does not reach its target state in time.
type TimeoutError struct {
	ResourceID string
	Target     string
	LastState  string
	Elapsed    time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %v waiting for %s to become %s (last state %q)",
		e.Elapsed.Round(time.Second), e.ResourceID, e.Target, e.LastState)
}

// StateError is returned when a resource reports a terminal failure state.
type StateError struct {
	ResourceID string
	State      string
	Target     string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s entered state %s while waiting for %s", e.ResourceID, e.State, e.Target)
}

// IsTimeout reports whether err is or wraps a *TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
