package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadStatus tracks an inquiry through the sales funnel.
type LeadStatus string

const (
	LeadStatusNew                LeadStatus = "new"
	LeadStatusSiteVisitScheduled LeadStatus = "site_visit_scheduled"
	LeadStatusInterested         LeadStatus = "interested"
	LeadStatusNotInterested      LeadStatus = "not_interested"
	LeadStatusClosed             LeadStatus = "closed"
)

// Lead is a public inquiry against a property. Creation requires no auth.
type Lead struct {
	ID         uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	PropertyID uuid.UUID  `json:"property_id" gorm:"type:char(36);not null;index"`
	Name       string     `json:"name" gorm:"size:255;not null"`
	Email      string     `json:"email" gorm:"size:255;not null"`
	Phone      string     `json:"phone" gorm:"size:20;not null"`
	Message    string     `json:"message" gorm:"type:text"`
	Source     string     `json:"source" gorm:"size:50"`
	Status     LeadStatus `json:"status" gorm:"type:varchar(25);not null;default:'new';index"`
	AssignedTo *uuid.UUID `json:"assigned_to,omitempty" gorm:"type:char(36);index"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Relations
	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}

// BeforeCreate sets UUID before creating the record.
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
