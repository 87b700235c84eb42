package timeline

import (
	"errors"
	"fmt"
)

var (
	// ErrActionFailure is wrapped by every error Run returns for a failing
	// action or renderer.
	ErrActionFailure = errors.New("timeline: action failed")

	// ErrTimelineClosed indicates a Submit or Run after the timeline reached
	// Complete or Failed.
	ErrTimelineClosed = errors.New("timeline: timeline closed")

	// ErrEmptyStep indicates a step with no actions or a nil action.
	ErrEmptyStep = errors.New("timeline: empty step")

	ErrNotOnStage = errors.New("timeline: primitive not on stage")
)

// ActionError records which step and action failed. It unwraps to both
// ErrActionFailure and the action's own error.
type ActionError struct {
	Step   int
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("timeline: step %d, action %s: %v", e.Step, e.Action, e.Err)
}

func (e *ActionError) Unwrap() []error {
	return []error{ErrActionFailure, e.Err}
}
