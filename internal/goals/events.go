package goals

import "log"

type EventType string

const (
	EventGoalCreated EventType = "goal.created"
	EventGoalUpdated EventType = "goal.updated"
	EventGoalDeleted EventType = "goal.deleted"
	EventTaskCreated EventType = "task.created"
	EventTaskUpdated EventType = "task.updated"
	EventTaskDeleted EventType = "task.deleted"
)

// Event describes one committed mutation. Events are emitted synchronously
// after a successful commit only; a rolled-back transaction emits nothing.
type Event struct {
	Type    EventType `json:"type"`
	OwnerID uint      `json:"-"`
	GoalID  uint      `json:"goal_id"`
	TaskID  uint      `json:"task_id,omitempty"`
	Title   string    `json:"title"`
}

// Observer receives post-commit events. Implementations must not assume
// they are called from any particular goroutine, but calls for a single
// request arrive in commit order.
type Observer interface {
	Notify(event Event)
}

// LogObserver writes an audit line per committed mutation.
type LogObserver struct{}

func (LogObserver) Notify(event Event) {
	if event.TaskID != 0 {
		log.Printf("%s: owner=%d goal=%d task=%d title=%q", event.Type, event.OwnerID, event.GoalID, event.TaskID, event.Title)
		return
	}

	log.Printf("%s: owner=%d goal=%d title=%q", event.Type, event.OwnerID, event.GoalID, event.Title)
}
