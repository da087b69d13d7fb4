package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	BaseModel

	Title       string  `gorm:"not null"`
	Subtitle    *string
	Link        *string
	Description *string
	Labels      datatypes.JSONSlice[string]
	Priority    *string
	DueDate     *datatypes.Date

	BoardID  uuid.UUID `gorm:"type:uuid;not null;index:idx_tasks_board_column_order,priority:1"`
	ColumnID uuid.UUID `gorm:"type:uuid;not null;index:idx_tasks_board_column_order,priority:2"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Order    int       `gorm:"column:sort_order;not null;default:0;index:idx_tasks_board_column_order,priority:3"`
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
