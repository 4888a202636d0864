package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PropertyStatus is the moderation state of a listing.
type PropertyStatus string

const (
	PropertyStatusPending  PropertyStatus = "pending"
	PropertyStatusApproved PropertyStatus = "approved"
	PropertyStatusRejected PropertyStatus = "rejected"
)

// ListingType is the commercial intent of a listing, distinct from its
// physical category.
type ListingType string

const (
	ListingTypeSell  ListingType = "sell"
	ListingTypeRent  ListingType = "rent"
	ListingTypeLease ListingType = "lease"
)

// PropertyFlag marks an approved listing as no longer actively available.
type PropertyFlag string

const (
	PropertyFlagSold   PropertyFlag = "sold"
	PropertyFlagRented PropertyFlag = "rented"
	PropertyFlagLeased PropertyFlag = "leased"
)

// AllowedFlag returns the only flag compatible with a listing type.
func (t ListingType) AllowedFlag() PropertyFlag {
	switch t {
	case ListingTypeRent:
		return PropertyFlagRented
	case ListingTypeLease:
		return PropertyFlagLeased
	default:
		return PropertyFlagSold
	}
}

// StringList stores an ordered collection of strings as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for StringList")
}

// Property represents a listing owned by one builder.
type Property struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	BuilderID   uuid.UUID       `json:"builder_id" gorm:"type:char(36);not null;index"`
	Title       string          `json:"title" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	Area        float64         `json:"area"`
	AreaUnit    string          `json:"area_unit" gorm:"size:20"`
	Location    string          `json:"location" gorm:"size:255;index"`
	Address     string          `json:"address" gorm:"size:512"`

	Type        string      `json:"type" gorm:"size:50;index"` // Flats, Villa, Shop, Office, Plot, ...
	Subtype     string      `json:"subtype" gorm:"size:50"`
	ListingType ListingType `json:"listing_type" gorm:"type:varchar(10);not null;index"`

	Status    PropertyStatus `json:"status" gorm:"type:varchar(10);not null;default:'pending';index"`
	Flag      *PropertyFlag  `json:"flag,omitempty" gorm:"type:varchar(10);index"`
	FlaggedAt *time.Time     `json:"flagged_at,omitempty"`
	FlaggedBy *uuid.UUID     `json:"flagged_by,omitempty" gorm:"type:char(36)"`

	Views int64 `json:"views" gorm:"not null;default:0"`

	Amenities       StringList `json:"amenities" gorm:"type:json"`
	Highlights      StringList `json:"highlights" gorm:"type:json"`
	Specifications  StringList `json:"specifications" gorm:"type:json"`
	Images          StringList `json:"images" gorm:"type:json"`
	Attachments     StringList `json:"attachments" gorm:"type:json"`
	NearbyLocations StringList `json:"nearby_locations" gorm:"type:json"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Builder User `json:"-" gorm:"foreignKey:BuilderID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
