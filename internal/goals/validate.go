package goals

import (
	"strings"
	"time"

	"github.com/goalpost-dev/goalpost/internal/models"
	"gorm.io/datatypes"
)

// validateGoal checks every field rule independently and returns all
// violations, not just the first. Uniqueness is checked separately inside
// the save transaction, where the current store state is visible.
func validateGoal(in GoalInput, todayDate time.Time) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, fieldError("title", msgTitleEmpty))
	}

	if in.Status != "" && !models.ValidGoalStatus(in.Status) {
		errs = append(errs, fieldError("status", msgStatusUnknown))
	}

	if in.Deadline != nil && dateValue(in.Deadline).Before(todayDate) {
		errs = append(errs, fieldError("deadline", msgDeadlinePast))
	}

	return errs
}

// validateTask checks one line item against the parent goal's deadline.
// Index tags each violation with the item's position in the batch.
func validateTask(index int, item TaskLineItem, goalDeadline *datatypes.Date) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(item.Title) == "" {
		errs = append(errs, lineItemError(index, "title", msgTitleEmpty))
	}

	if item.DueDate != nil && goalDeadline != nil && dateValue(item.DueDate).After(dateValue(goalDeadline)) {
		errs = append(errs, lineItemError(index, "due_date", msgDueAfterDeadline))
	}

	return errs
}
