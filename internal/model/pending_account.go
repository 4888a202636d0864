package model

import (
	"time"

	"github.com/google/uuid"
)

// OTPPurpose names the operation a pending record gates.
type OTPPurpose string

const (
	OTPPurposeSignup           OTPPurpose = "signup"
	OTPPurposePasswordReset    OTPPurpose = "password_reset"
	OTPPurposeEmailChange      OTPPurpose = "email_change"
	OTPPurposePasswordChange   OTPPurpose = "password_change"
	OTPPurposeDashboardProfile OTPPurpose = "dashboard_profile"
)

// PendingAccount stages a not-yet-confirmed identity operation keyed by email.
// At most one pending operation exists per email; requesting a new OTP
// overwrites the previous record. Staged profile fields are populated only
// for signup and otherwise hold placeholder values.
type PendingAccount struct {
	Email        string     `json:"email" gorm:"primaryKey;size:255"`
	Name         string     `json:"name" gorm:"size:255"`
	Mobile       string     `json:"mobile" gorm:"size:20"`
	PasswordHash string     `json:"-" gorm:"size:255"`
	Role         Role       `json:"role" gorm:"type:varchar(20)"`
	Purpose      OTPPurpose `json:"purpose" gorm:"type:varchar(30);not null"`

	// UserID ties every flow against an existing account (email/password
	// change, password reset) back to it; nil for signup only.
	UserID *uuid.UUID `json:"user_id,omitempty" gorm:"type:char(36)"`

	// Builder-only staged fields.
	PropertyType    string `json:"property_type,omitempty" gorm:"size:50"`
	LookingTo       string `json:"looking_to,omitempty" gorm:"size:50"`
	ProjectName     string `json:"project_name,omitempty" gorm:"size:255"`
	PropertyAddress string `json:"property_address,omitempty" gorm:"size:512"`

	OTP       string    `json:"-" gorm:"size:6;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
