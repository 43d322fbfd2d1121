package goals

import (
	"errors"
	"fmt"
	"strings"
)

// Typed outcomes the workflow produces deliberately. Handlers translate
// them to HTTP statuses; anything else is an unexpected store failure.
var (
	// ErrNotFound covers both missing rows and rows owned by someone
	// else, so existence of other users' data is never leaked.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden is reserved for requests that are detectably
	// cross-owner before any lookup filtering applies.
	ErrForbidden = errors.New("access denied")
)

// FieldError attributes a single rule violation to a field. LineItem is nil
// for goal-level fields and carries the zero-based batch index when the
// violation belongs to a task line item.
type FieldError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	LineItem *int   `json:"line_item,omitempty"`
}

// ValidationError collects every violation found in one request. It is
// always recovered at the handler boundary, never surfaced as a crash.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))

	for _, fe := range e.Errors {
		if fe.LineItem != nil {
			parts = append(parts, fmt.Sprintf("tasks[%d].%s: %s", *fe.LineItem, fe.Field, fe.Message))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
		}
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

func fieldError(field, message string) FieldError {
	return FieldError{Field: field, Message: message}
}

func lineItemError(index int, field, message string) FieldError {
	i := index
	return FieldError{Field: field, Message: message, LineItem: &i}
}

const (
	msgTitleEmpty       = "Title cannot be empty."
	msgStatusUnknown    = "Status must be one of open, in_progress or done."
	msgDeadlinePast     = "Deadline cannot be in the past."
	msgDueAfterDeadline = "Task due date must be on or before the goal deadline."
	msgGoalTitleTaken   = "You already have a goal with this title."
	msgTaskTitleTaken   = "A task with this title already exists for this goal."
	msgTaskUnknown      = "Task does not belong to this goal."
)

// goalTitleConflict is the shape a (owner, title) conflict takes whether it
// is caught by the optimistic pre-check or by the store constraint.
func goalTitleConflict() *ValidationError {
	return &ValidationError{Errors: []FieldError{fieldError("title", msgGoalTitleTaken)}}
}
