package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ListingStatus string

const (
	ListingPending  ListingStatus = "pending"
	ListingActive   ListingStatus = "active"
	ListingRejected ListingStatus = "rejected"
)

// DaySchedule is one entry of a space's weekly opening hours.
type DaySchedule struct {
	Day   string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Open  string `json:"open" validate:"required,datetime=15:04"`
	Close string `json:"close" validate:"required,datetime=15:04"`
}

type Space struct {
	BaseModel
	HostID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"host_id"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	LocationID  *uuid.UUID `gorm:"type:uuid;index" json:"location_id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Address     string     `gorm:"size:255" json:"address"`

	PricePerHour    float64 `gorm:"type:numeric(12,2);not null" json:"price_per_hour"`
	PricePerDay     float64 `gorm:"type:numeric(12,2);not null" json:"price_per_day"`
	Capacity        int     `gorm:"not null" json:"capacity"`
	InitialCapacity int     `gorm:"not null" json:"initial_capacity"`
	IsAvailable     bool    `gorm:"default:true" json:"is_available"`

	ListingStatus   ListingStatus `gorm:"size:20;not null;default:'pending';index" json:"listing_status"`
	IsApproved      bool          `gorm:"default:false" json:"is_approved"`
	RejectionReason *string       `gorm:"type:text" json:"rejection_reason,omitempty"`

	BookingCount  int     `gorm:"default:0" json:"booking_count"`
	AverageRating float64 `gorm:"type:numeric(3,2);default:0" json:"average_rating"`

	Amenities    datatypes.JSONSlice[string]      `json:"amenities"`
	Availability datatypes.JSONSlice[DaySchedule] `json:"availability"`

	Images   []SpaceImage `gorm:"foreignKey:SpaceID" json:"images,omitempty"`
	Category *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Location *Location    `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}

type SpaceImage struct {
	BaseModel
	SpaceID  uuid.UUID `gorm:"type:uuid;not null;index" json:"space_id"`
	URL      string    `gorm:"size:500;not null" json:"url"`
	PublicID string    `gorm:"size:255;not null" json:"public_id"`
}
