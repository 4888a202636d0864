package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies what a user is allowed to do.
type Role string

const (
	RoleBuyer          Role = "BUYER"
	RoleBuilder        Role = "BUILDER"
	RoleAdmin          Role = "ADMIN"
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleSaaSOwner      Role = "SAAS_OWNER"
	RoleTelecaller     Role = "TELECALLER"
	RoleSalesExecutive Role = "SALES_EXECUTIVE"
)

// RequiresSecurityKey reports whether logins for this role must present the
// per-user security key. SUPER_ADMIN is excluded: it authenticates against
// configured secrets, not a stored key.
func (r Role) RequiresSecurityKey() bool {
	return r == RoleAdmin || r == RoleTelecaller || r == RoleSalesExecutive
}

// IsStaff reports whether the role is an operational (non-public) role.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin, RoleSaaSOwner, RoleTelecaller, RoleSalesExecutive:
		return true
	}
	return false
}

// UserStatus is the account lifecycle state. Accounts are disabled, never
// hard-deleted.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// User represents an identity record: buyer, builder or staff.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string     `json:"name" gorm:"size:255;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Mobile       string     `json:"mobile" gorm:"size:20"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role       `json:"role" gorm:"type:varchar(20);not null;index"`
	Status       UserStatus `json:"status" gorm:"type:varchar(10);not null;default:'active';index"`
	SecurityKey  string     `json:"-" gorm:"size:255"` // set only for ADMIN/TELECALLER/SALES_EXECUTIVE

	// Builder-only profile fields.
	PropertyType    string `json:"property_type,omitempty" gorm:"size:50"`
	LookingTo       string `json:"looking_to,omitempty" gorm:"size:50"`
	ProjectName     string `json:"project_name,omitempty" gorm:"size:255"`
	PropertyAddress string `json:"property_address,omitempty" gorm:"size:512"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
