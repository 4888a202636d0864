package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SiteVisitStatus tracks a scheduled visit.
type SiteVisitStatus string

const (
	SiteVisitStatusScheduled SiteVisitStatus = "scheduled"
	SiteVisitStatusCompleted SiteVisitStatus = "completed"
	SiteVisitStatusCancelled SiteVisitStatus = "cancelled"
)

// SiteVisit is a staff-scheduled viewing for a lead. Telecallers and sales
// executives only see visits where they are the assigned staff member.
type SiteVisit struct {
	ID         uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	LeadID     uuid.UUID       `json:"lead_id" gorm:"type:char(36);not null;index"`
	PropertyID uuid.UUID       `json:"property_id" gorm:"type:char(36);not null;index"`
	StaffID    uuid.UUID       `json:"staff_id" gorm:"type:char(36);not null;index"`
	VisitDate  time.Time       `json:"visit_date" gorm:"not null"`
	Status     SiteVisitStatus `json:"status" gorm:"type:varchar(15);not null;default:'scheduled'"`
	Notes      string          `json:"notes" gorm:"type:text"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Relations
	Lead     Lead     `json:"-" gorm:"foreignKey:LeadID"`
	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}

// BeforeCreate sets UUID before creating the record.
func (v *SiteVisit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
