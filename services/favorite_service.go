package services

import (
	"context"

	"github.com/anjiri1684/spacehub/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// ToggleFavorite adds the space to the user's favorites, or removes it when
// it is already there. It reports whether the space is now a favorite.
func (s *FavoriteService) ToggleFavorite(ctx context.Context, userID, spaceID uuid.UUID) (bool, error) {
	added := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var space models.Space
		if err := tx.Select("id").First(&space, "id = ?", spaceID).Error; err != nil {
			return lookup(err, ErrSpaceNotFound)
		}

		res := tx.Where("user_id = ? AND space_id = ?", userID, spaceID).Delete(&models.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		added = true
		return tx.Create(&models.Favorite{UserID: userID, SpaceID: spaceID}).Error
	})
	return added, err
}

func (s *FavoriteService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Preload("Space").Preload("Space.Images").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}
