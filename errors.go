package sequential

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Navigate.
var (
	// ErrNavigationConflict indicates another transition was already in flight.
	// No guard or hook ran.
	ErrNavigationConflict = errors.New("navigation already in progress")

	// ErrNavigationBlocked indicates a guard, a hook or a disabled destination
	// vetoed the transition. This is normal flow control, not a failure.
	ErrNavigationBlocked = errors.New("navigation blocked")

	// ErrPanelNotFound indicates the source or destination index has no panel.
	ErrPanelNotFound = errors.New("panel not found")
)

// Operations reported by NavigationError.
const (
	OpCanNavigateFrom = "can_navigate_from"
	OpCanNavigateTo   = "can_navigate_to"
	OpBeforeNavigate  = "before_navigate"
	OpAfterNavigate   = "after_navigate"
	OpCommit          = "commit"
)

// NavigationError represents a guard or hook that failed (returned an error
// or panicked) while a transition was being attempted.
type NavigationError struct {
	Op    string          // Step that failed, one of the Op* constants
	Event TransitionEvent // Attempt during which it failed
	Err   error           // Underlying error
}

func (e *NavigationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sequential: %s %d->%d: %v", e.Op, e.Event.From, e.Event.To, e.Err)
	}
	return fmt.Sprintf("sequential: %s %d->%d", e.Op, e.Event.From, e.Event.To)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// IsBlocked checks if an error is a veto rather than a failure.
func IsBlocked(err error) bool {
	return errors.Is(err, ErrNavigationBlocked)
}

// IsConflict checks if an error was caused by an overlapping transition.
func IsConflict(err error) bool {
	return errors.Is(err, ErrNavigationConflict)
}

// IsNavigationError checks if an error is a guard or hook failure.
func IsNavigationError(err error) bool {
	var navErr *NavigationError
	return errors.As(err, &navErr)
}
