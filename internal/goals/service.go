package goals

import (
	"errors"
	"strings"

	"github.com/goalpost-dev/goalpost/internal/models"
	"gorm.io/gorm"
)

// Service owns the validate-then-persist workflow for goals and tasks.
// Every mutation runs inside one transaction; observers are notified only
// after a successful commit.
type Service struct {
	db        *gorm.DB
	observers []Observer
}

func NewService(db *gorm.DB, observers ...Observer) *Service {
	return &Service{db: db, observers: observers}
}

func (s *Service) notify(events []Event) {
	for _, event := range events {
		for _, observer := range s.observers {
			observer.Notify(event)
		}
	}
}

// ownedGoal resolves a goal visible to ownerID. A row owned by someone else
// is reported as not found, identically to a missing row.
func ownedGoal(tx *gorm.DB, ownerID, goalID uint) (*models.Goal, error) {
	var goal models.Goal

	if err := tx.Where("id = ? AND owner_id = ?", goalID, ownerID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &goal, nil
}

// CreateGoal persists a new goal together with its inline task batch as one
// atomic unit. Any validation failure rolls back everything, the goal
// insert included.
func (s *Service) CreateGoal(ownerID uint, in GoalInput, items []TaskLineItem) (*models.Goal, error) {
	return s.saveGoal(ownerID, 0, in, items)
}

// UpdateGoal edits an existing goal plus the submitted task line items in
// one transaction. Stored tasks absent from the batch are left untouched
// and are not re-validated against a changed deadline.
func (s *Service) UpdateGoal(ownerID, goalID uint, in GoalInput, items []TaskLineItem) (*models.Goal, error) {
	// A zero ID would otherwise read as "create" inside saveGoal.
	if goalID == 0 {
		return nil, ErrNotFound
	}

	return s.saveGoal(ownerID, goalID, in, items)
}

func (s *Service) saveGoal(ownerID, goalID uint, in GoalInput, items []TaskLineItem) (*models.Goal, error) {
	in.Title = strings.TrimSpace(in.Title)

	if in.Status == "" {
		in.Status = models.GoalStatusOpen
	}

	if errs := validateGoal(in, today()); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	var (
		goal   *models.Goal
		events []Event
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Resolve the target first so a cross-owner update fails before
		// any write is attempted.
		if goalID != 0 {
			existing, err := ownedGoal(tx, ownerID, goalID)

			if err != nil {
				return err
			}

			goal = existing
		}

		// Optimistic (owner, title) pre-check. The unique index remains
		// the final arbiter for requests racing past this point.
		dup := tx.Model(&models.Goal{}).Where("owner_id = ? AND title = ?", ownerID, in.Title)

		if goalID != 0 {
			dup = dup.Where("id <> ?", goalID)
		}

		var count int64

		if err := dup.Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return goalTitleConflict()
		}

		eventType := EventGoalUpdated

		if goal == nil {
			goal = &models.Goal{OwnerID: ownerID}
			eventType = EventGoalCreated
		}

		goal.Title = in.Title
		goal.Description = in.Description
		goal.Status = in.Status
		goal.Deadline = in.Deadline

		if err := tx.Save(goal).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return goalTitleConflict()
			}
			return err
		}

		taskEvents, err := saveTaskBatch(tx, goal, items)

		if err != nil {
			return err
		}

		events = append(events, Event{Type: eventType, OwnerID: ownerID, GoalID: goal.ID, Title: goal.Title})
		events = append(events, taskEvents...)

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.notify(events)

	return goal, nil
}

// saveTaskBatch validates every line item before applying any of them, so
// a failure in one item aborts the whole transaction with all collected
// errors tagged by line item.
func saveTaskBatch(tx *gorm.DB, goal *models.Goal, items []TaskLineItem) ([]Event, error) {
	var stored []models.Task

	if err := tx.Where("goal_id = ?", goal.ID).Find(&stored).Error; err != nil {
		return nil, err
	}

	storedByID := make(map[uint]*models.Task, len(stored))

	for i := range stored {
		storedByID[stored[i].ID] = &stored[i]
	}

	// Stored rows the batch references are being rewritten or removed, so
	// their current titles no longer count against the batch.
	touched := make(map[uint]bool, len(items))

	for _, item := range items {
		if item.ID != 0 {
			touched[item.ID] = true
		}
	}

	var errs []FieldError

	seen := make(map[string]bool, len(items))

	for i, item := range items {
		if item.Delete {
			continue
		}

		title := strings.TrimSpace(item.Title)

		errs = append(errs, validateTask(i, item, goal.Deadline)...)

		if item.ID != 0 {
			if _, ok := storedByID[item.ID]; !ok {
				errs = append(errs, lineItemError(i, "id", msgTaskUnknown))
			}
		}

		if title == "" {
			continue
		}

		// Duplicates inside the batch are reported on the second
		// occurrence.
		if seen[title] {
			errs = append(errs, lineItemError(i, "title", msgTaskTitleTaken))
			continue
		}

		seen[title] = true

		for j := range stored {
			if stored[j].Title == title && !touched[stored[j].ID] {
				errs = append(errs, lineItemError(i, "title", msgTaskTitleTaken))
				break
			}
		}
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	var events []Event

	// Deletions go first so their unique title slots are free for the
	// creates and renames that follow.
	for _, item := range items {
		if !item.Delete || item.ID == 0 {
			continue
		}

		existing, ok := storedByID[item.ID]

		if !ok {
			// Already gone; deleting it again is a no-op.
			continue
		}

		if err := tx.Delete(existing).Error; err != nil {
			return nil, err
		}

		events = append(events, Event{Type: EventTaskDeleted, OwnerID: goal.OwnerID, GoalID: goal.ID, TaskID: existing.ID, Title: existing.Title})
	}

	for i, item := range items {
		if item.Delete {
			continue
		}

		title := strings.TrimSpace(item.Title)

		if item.ID != 0 {
			existing := storedByID[item.ID]
			existing.Title = title
			existing.Description = item.Description
			existing.DueDate = item.DueDate
			existing.IsDone = item.IsDone

			if err := tx.Save(existing).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return nil, &ValidationError{Errors: []FieldError{lineItemError(i, "title", msgTaskTitleTaken)}}
				}
				return nil, err
			}

			events = append(events, Event{Type: EventTaskUpdated, OwnerID: goal.OwnerID, GoalID: goal.ID, TaskID: existing.ID, Title: existing.Title})

			continue
		}

		task := models.Task{
			OwnerID:     goal.OwnerID,
			GoalID:      goal.ID,
			Title:       title,
			Description: item.Description,
			DueDate:     item.DueDate,
			IsDone:      item.IsDone,
		}

		if err := tx.Create(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, &ValidationError{Errors: []FieldError{lineItemError(i, "title", msgTaskTitleTaken)}}
			}
			return nil, err
		}

		events = append(events, Event{Type: EventTaskCreated, OwnerID: goal.OwnerID, GoalID: goal.ID, TaskID: task.ID, Title: task.Title})
	}

	return events, nil
}

// GetGoal returns a goal visible to ownerID with its tasks ordered the way
// the list views present them.
func (s *Service) GetGoal(ownerID, goalID uint) (*models.Goal, error) {
	var goal models.Goal

	err := s.db.
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_done").Order("due_date").Order("created_at DESC")
		}).
		Where("id = ? AND owner_id = ?", goalID, ownerID).
		First(&goal).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &goal, nil
}

// GoalCounts summarizes one owner's goal list.
type GoalCounts struct {
	Total      int `json:"total"`
	Done       int `json:"done"`
	InProgress int `json:"in_progress"`
}

func (s *Service) ListGoals(ownerID uint) ([]models.Goal, GoalCounts, error) {
	var goalList []models.Goal

	err := s.db.
		Where("owner_id = ?", ownerID).
		Order("status").Order("deadline").Order("created_at DESC").
		Find(&goalList).Error

	if err != nil {
		return nil, GoalCounts{}, err
	}

	counts := GoalCounts{Total: len(goalList)}

	for _, goal := range goalList {
		switch goal.Status {
		case models.GoalStatusDone:
			counts.Done++
		case models.GoalStatusInProgress:
			counts.InProgress++
		}
	}

	return goalList, counts, nil
}

// DeleteGoal removes a goal and every task attached to it. The explicit
// task delete keeps the no-orphans guarantee independent of how the
// backing store enforces its foreign keys.
func (s *Service) DeleteGoal(ownerID, goalID uint) error {
	var events []Event

	err := s.db.Transaction(func(tx *gorm.DB) error {
		goal, err := ownedGoal(tx, ownerID, goalID)

		if err != nil {
			return err
		}

		if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(goal).Error; err != nil {
			return err
		}

		events = append(events, Event{Type: EventGoalDeleted, OwnerID: ownerID, GoalID: goal.ID, Title: goal.Title})

		return nil
	})

	if err != nil {
		return err
	}

	s.notify(events)

	return nil
}

// CreateTask attaches a single new task to an existing goal.
func (s *Service) CreateTask(ownerID, goalID uint, item TaskLineItem) (*models.Task, error) {
	item.Title = strings.TrimSpace(item.Title)

	var (
		task   *models.Task
		events []Event
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		goal, err := ownedGoal(tx, ownerID, goalID)

		if err != nil {
			return err
		}

		if errs := stripLineItems(validateTask(0, item, goal.Deadline)); len(errs) > 0 {
			return &ValidationError{Errors: errs}
		}

		var count int64

		if err := tx.Model(&models.Task{}).Where("goal_id = ? AND title = ?", goal.ID, item.Title).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return taskTitleConflict()
		}

		task = &models.Task{
			OwnerID:     goal.OwnerID,
			GoalID:      goal.ID,
			Title:       item.Title,
			Description: item.Description,
			DueDate:     item.DueDate,
			IsDone:      item.IsDone,
		}

		if err := tx.Create(task).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return taskTitleConflict()
			}
			return err
		}

		events = append(events, Event{Type: EventTaskCreated, OwnerID: ownerID, GoalID: goal.ID, TaskID: task.ID, Title: task.Title})

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.notify(events)

	return task, nil
}

// UpdateTask edits one task of an owned goal.
func (s *Service) UpdateTask(ownerID, goalID, taskID uint, item TaskLineItem) (*models.Task, error) {
	item.Title = strings.TrimSpace(item.Title)

	var (
		task   *models.Task
		events []Event
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		goal, err := ownedGoal(tx, ownerID, goalID)

		if err != nil {
			return err
		}

		task, err = ownedTask(tx, goal.ID, taskID)

		if err != nil {
			return err
		}

		if errs := stripLineItems(validateTask(0, item, goal.Deadline)); len(errs) > 0 {
			return &ValidationError{Errors: errs}
		}

		var count int64

		if err := tx.Model(&models.Task{}).Where("goal_id = ? AND title = ? AND id <> ?", goal.ID, item.Title, task.ID).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return taskTitleConflict()
		}

		task.Title = item.Title
		task.Description = item.Description
		task.DueDate = item.DueDate
		task.IsDone = item.IsDone

		if err := tx.Save(task).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return taskTitleConflict()
			}
			return err
		}

		events = append(events, Event{Type: EventTaskUpdated, OwnerID: ownerID, GoalID: goal.ID, TaskID: task.ID, Title: task.Title})

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.notify(events)

	return task, nil
}

// DeleteTask removes one task of an owned goal.
func (s *Service) DeleteTask(ownerID, goalID, taskID uint) error {
	var events []Event

	err := s.db.Transaction(func(tx *gorm.DB) error {
		goal, err := ownedGoal(tx, ownerID, goalID)

		if err != nil {
			return err
		}

		task, err := ownedTask(tx, goal.ID, taskID)

		if err != nil {
			return err
		}

		if err := tx.Delete(task).Error; err != nil {
			return err
		}

		events = append(events, Event{Type: EventTaskDeleted, OwnerID: ownerID, GoalID: goal.ID, TaskID: task.ID, Title: task.Title})

		return nil
	})

	if err != nil {
		return err
	}

	s.notify(events)

	return nil
}

func ownedTask(tx *gorm.DB, goalID, taskID uint) (*models.Task, error) {
	var task models.Task

	if err := tx.Where("id = ? AND goal_id = ?", taskID, goalID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &task, nil
}

func stripLineItems(errs []FieldError) []FieldError {
	for i := range errs {
		errs[i].LineItem = nil
	}
	return errs
}

func taskTitleConflict() *ValidationError {
	return &ValidationError{Errors: []FieldError{fieldError("title", msgTaskTitleTaken)}}
}
