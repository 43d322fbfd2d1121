package goals

import (
	"fmt"
	"time"

	"github.com/goalpost-dev/goalpost/internal/models"
	"gorm.io/datatypes"
)

// DateLayout is the wire format for deadline and due date fields.
const DateLayout = "2006-01-02"

// GoalInput is the validated-candidate payload for a goal insert or update.
type GoalInput struct {
	Title       string
	Description string
	Status      models.GoalStatus
	Deadline    *datatypes.Date
}

// TaskLineItem is one entry of a submitted task batch. ID is zero for new
// tasks; Delete marks an existing task for removal (a no-op when ID is zero).
type TaskLineItem struct {
	ID          uint
	Title       string
	Description string
	DueDate     *datatypes.Date
	IsDone      bool
	Delete      bool
}

// ParseDate parses a YYYY-MM-DD wire value. Empty input yields nil.
func ParseDate(s string) (*datatypes.Date, error) {
	if s == "" {
		return nil, nil
	}

	t, err := time.ParseInLocation(DateLayout, s, time.UTC)

	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected %s", s, DateLayout)
	}

	d := datatypes.Date(t)
	return &d, nil
}

// FormatDate renders a stored date back to the wire format, or "" for nil.
func FormatDate(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return time.Time(*d).Format(DateLayout)
}

func dateValue(d *datatypes.Date) time.Time {
	t := time.Time(*d)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
