package models

import "github.com/google/uuid"

// Column does not store its task ids. Membership is Task.ColumnID, queried
// in (order, created_at, id) sequence.
type Column struct {
	BaseModel

	Name    string    `gorm:"not null"`
	Order   int       `gorm:"column:sort_order;not null;default:0"`
	BoardID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Relationships
	Tasks []Task `gorm:"foreignKey:ColumnID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
