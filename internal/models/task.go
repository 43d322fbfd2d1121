package models

import (
	"gorm.io/datatypes"
)

type Task struct {
	BaseModel

	// OwnerID is denormalized from the parent goal so achievement queries
	// never need a join.
	OwnerID     uint            `gorm:"not null;index"`
	GoalID      uint            `gorm:"not null;uniqueIndex:idx_tasks_goal_title;index:idx_tasks_goal_done_due,priority:1"`
	Title       string          `gorm:"size:200;not null;uniqueIndex:idx_tasks_goal_title;check:task_title_not_empty,title <> ''"`
	Description string          `gorm:"type:text"`
	DueDate     *datatypes.Date `gorm:"index:idx_tasks_goal_done_due,priority:3"`
	IsDone      bool            `gorm:"not null;default:false;index:idx_tasks_goal_done_due,priority:2"`

	// Relationships
	Goal Goal `gorm:"foreignKey:GoalID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
