package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingUpcoming BookingStatus = "upcoming"
	BookingActive   BookingStatus = "active"
	BookingFailed   BookingStatus = "failed"
	BookingExpired  BookingStatus = "expired"
)

type Booking struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SpaceID   uuid.UUID `gorm:"type:uuid;not null;index" json:"space_id"`
	HostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"host_id"`
	UserName  string    `gorm:"size:255" json:"user_name"`
	SpaceName string    `gorm:"size:255" json:"space_name"`

	DurationPerHour *int       `json:"duration_per_hour,omitempty"`
	DurationPerDay  *int       `json:"duration_per_day,omitempty"`
	StartDate       time.Time  `gorm:"not null" json:"start_date"`
	CheckinTime     string     `gorm:"size:5;not null" json:"checkin_time"`
	StartTime       time.Time  `gorm:"index" json:"start_time"`
	EndDate         *time.Time `json:"end_date"`

	Amount        float64       `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency      string        `gorm:"size:3" json:"currency"`
	Status        BookingStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Reference     string        `gorm:"size:100;not null;uniqueIndex" json:"reference"`
	CheckoutURL   string        `gorm:"size:500" json:"checkout_url,omitempty"`
	PaymentDate   *time.Time    `json:"payment_date"`
	FailureReason *string       `gorm:"type:text" json:"failure_reason,omitempty"`

	ReminderSentAt *time.Time `json:"-"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Space Space `gorm:"foreignKey:SpaceID" json:"-"`
}

// StartsAt combines the booked day with the check-in time. It falls back to
// the start date when the check-in time is malformed.
func (b *Booking) StartsAt() time.Time {
	t, err := time.Parse("15:04", b.CheckinTime)
	if err != nil {
		return b.StartDate
	}
	y, m, d := b.StartDate.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, b.StartDate.Location())
}

// ComputeEndDate adds the booked hours or days to the start time.
func (b *Booking) ComputeEndDate() time.Time {
	start := b.StartsAt()
	if b.DurationPerHour != nil {
		return start.Add(time.Duration(*b.DurationPerHour) * time.Hour)
	}
	if b.DurationPerDay != nil {
		return start.AddDate(0, 0, *b.DurationPerDay)
	}
	return start
}
