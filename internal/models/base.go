package models

import "time"

// BaseModel is embedded by every persisted entity. Rows are hard-deleted:
// soft deletes would keep deleted titles occupying the composite unique
// indexes and defeat the cascade guarantees.
type BaseModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
