package services

import (
	"context"
	"errors"
	"log"

	"github.com/anjiri1684/spacehub/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

type ReviewUpdate struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

func (s *ReviewService) CreateReview(ctx context.Context, userID, spaceID uuid.UUID, in ReviewInput) (*models.Review, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	var review models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return lookup(err, ErrUserNotFound)
		}
		var space models.Space
		if err := tx.First(&space, "id = ?", spaceID).Error; err != nil {
			return lookup(err, ErrSpaceNotFound)
		}

		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("user_id = ? AND space_id = ?", userID, spaceID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateReview
		}

		review = models.Review{
			UserID:   userID,
			SpaceID:  spaceID,
			UserName: user.FullName,
			Rating:   in.Rating,
			Comment:  in.Comment,
		}
		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateReview
			}
			return err
		}
		return refreshRating(tx, spaceID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, in ReviewUpdate) (*models.Review, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	var review models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			return lookup(err, ErrReviewNotFound)
		}
		if review.UserID != userID {
			return ErrNotOwner
		}
		if in.Rating != nil {
			review.Rating = *in.Rating
		}
		if in.Comment != nil {
			review.Comment = *in.Comment
		}
		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		return refreshRating(tx, review.SpaceID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes a review. A zero userID deletes on behalf of an admin.
func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			return lookup(err, ErrReviewNotFound)
		}
		if userID != uuid.Nil && review.UserID != userID {
			return ErrNotOwner
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		log.Printf("Review %s removed from space %s", review.ID, review.SpaceID)
		return refreshRating(tx, review.SpaceID)
	})
}

func (s *ReviewService) ListSpaceReviews(ctx context.Context, spaceID uuid.UUID) ([]models.Review, error) {
	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Space{}).Where("id = ?", spaceID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrSpaceNotFound
	}
	var reviews []models.Review
	err := db.Where("space_id = ?", spaceID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (s *ReviewService) ListAllReviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

// refreshRating stores the mean rating of a space, zero when it has none.
func refreshRating(tx *gorm.DB, spaceID uuid.UUID) error {
	var result struct{ Avg float64 }
	if err := tx.Model(&models.Review{}).Where("space_id = ?", spaceID).
		Select("COALESCE(AVG(rating), 0) as avg").Scan(&result).Error; err != nil {
		return err
	}
	return tx.Model(&models.Space{}).Where("id = ?", spaceID).Update("average_rating", result.Avg).Error
}
