package models

import "github.com/google/uuid"

type Board struct {
	BaseModel

	Name      string    `gorm:"not null"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	IsPrivate bool      `gorm:"not null;default:true;index"`

	// Relationships
	Columns []Column `gorm:"foreignKey:BoardID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// DefaultColumns are provisioned, in this order, for every new board.
var DefaultColumns = []string{"Backlog", "To Do", "Doing", "Review", "Done"}
