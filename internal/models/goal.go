package models

import (
	"gorm.io/datatypes"
)

type GoalStatus string

const (
	GoalStatusOpen       GoalStatus = "open"
	GoalStatusInProgress GoalStatus = "in_progress"
	GoalStatusDone       GoalStatus = "done"
)

// ValidGoalStatus reports whether s is one of the declared status values.
func ValidGoalStatus(s GoalStatus) bool {
	switch s {
	case GoalStatusOpen, GoalStatusInProgress, GoalStatusDone:
		return true
	}
	return false
}

type Goal struct {
	BaseModel

	OwnerID     uint            `gorm:"not null;index;uniqueIndex:idx_goals_owner_title"`
	Title       string          `gorm:"size:200;not null;uniqueIndex:idx_goals_owner_title;check:goal_title_not_empty,title <> ''"`
	Description string          `gorm:"type:text"`
	Status      GoalStatus      `gorm:"size:20;not null;default:'open';index"`
	Deadline    *datatypes.Date `gorm:"index"`

	// Relationships
	Owner User   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Tasks []Task `gorm:"foreignKey:GoalID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
