package models

import "github.com/google/uuid"

type Review struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_space" json:"user_id"`
	SpaceID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_space;index" json:"space_id"`
	UserName string    `gorm:"size:255" json:"user_name"`
	Rating   int       `gorm:"not null" json:"rating"`
	Comment  string    `gorm:"type:text" json:"comment"`
}
