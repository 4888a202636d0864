package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite marks a property saved by a buyer. One row per (user, property).
type Favorite struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_user_property"`
	PropertyID uuid.UUID `json:"property_id" gorm:"type:char(36);not null;uniqueIndex:idx_user_property"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Property Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

// BeforeCreate sets UUID before creating the record.
func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
