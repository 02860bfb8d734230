package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// Notification is an outbox row written in the same transaction as the state
// change it announces.
type Notification struct {
	BaseModel
	RecipientID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"recipient_id"`
	RecipientEmail string             `gorm:"size:255;not null" json:"recipient_email"`
	RecipientName  string             `gorm:"size:255" json:"recipient_name"`
	Event          string             `gorm:"size:100;not null" json:"event"`
	Subject        string             `gorm:"size:255;not null" json:"subject"`
	Body           string             `gorm:"type:text;not null" json:"body"`
	DedupKey       string             `gorm:"size:255;not null;uniqueIndex" json:"-"`
	Status         NotificationStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Attempts       int                `gorm:"not null;default:0" json:"attempts"`
	LastError      *string            `gorm:"type:text" json:"-"`
	SentAt         *time.Time         `json:"sent_at"`
}
