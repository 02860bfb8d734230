package models

import "github.com/google/uuid"

type Favorite struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_space" json:"user_id"`
	SpaceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_space" json:"space_id"`

	Space Space `gorm:"foreignKey:SpaceID" json:"space"`
}
