package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types emitted by the system.
const (
	NotificationTypePropertyApproved = "property_approved"
	NotificationTypePropertyRejected = "property_rejected"
	NotificationTypePropertyFlagged  = "property_flagged"
	NotificationTypeWelcome          = "welcome"
	NotificationTypeCredentials      = "credentials"
)

// Notification is an in-system message for one recipient, unread by default.
type Notification struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Type      string    `json:"type" gorm:"size:50;not null"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Message   string    `json:"message" gorm:"type:text"`
	Link      string    `json:"link" gorm:"size:512"`
	IsRead    bool      `json:"is_read" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
