package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/anjiri1684/spacehub/models"
	"github.com/anjiri1684/spacehub/notifications"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MediaStore hosts space images.
type MediaStore interface {
	Upload(ctx context.Context, file io.Reader, filename string) (*UploadedImage, error)
	Destroy(ctx context.Context, publicID string) error
	SignUpload() (*SignedUpload, error)
}

type UploadedImage struct {
	URL      string
	PublicID string
}

type SignedUpload struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

type ImageFile struct {
	Name   string
	Reader io.Reader
}

type SpaceService struct {
	db              *gorm.DB
	media           MediaStore
	outbox          Kicker
	freeTierListing int
	now             func() time.Time
}

func NewSpaceService(db *gorm.DB, media MediaStore, outbox Kicker, freeTierListing int) *SpaceService {
	if freeTierListing <= 0 {
		freeTierListing = 1
	}
	if media == nil {
		media = noMedia{}
	}
	return &SpaceService{db: db, media: media, outbox: orNop(outbox), freeTierListing: freeTierListing, now: time.Now}
}

type CreateSpaceInput struct {
	Name            string               `json:"name" validate:"required,min=3,max=255"`
	Description     string               `json:"description" validate:"omitempty,max=5000"`
	Address         string               `json:"address" validate:"required,max=255"`
	CategoryID      *uuid.UUID           `json:"category_id"`
	LocationID      *uuid.UUID           `json:"location_id"`
	PricePerHour    float64              `json:"price_per_hour" validate:"required,gt=0"`
	PricePerDay     float64              `json:"price_per_day" validate:"required,gt=0"`
	InitialCapacity int                  `json:"initial_capacity" validate:"required,min=1"`
	Amenities       []string             `json:"amenities" validate:"omitempty,dive,required,max=100"`
	Availability    []models.DaySchedule `json:"availability" validate:"omitempty,dive"`
}

type UpdateSpaceInput struct {
	Name            *string               `json:"name" validate:"omitempty,min=3,max=255"`
	Description     *string               `json:"description" validate:"omitempty,max=5000"`
	Address         *string               `json:"address" validate:"omitempty,max=255"`
	CategoryID      *uuid.UUID            `json:"category_id"`
	LocationID      *uuid.UUID            `json:"location_id"`
	PricePerHour    *float64              `json:"price_per_hour" validate:"omitempty,gt=0"`
	PricePerDay     *float64              `json:"price_per_day" validate:"omitempty,gt=0"`
	InitialCapacity *int                  `json:"initial_capacity" validate:"omitempty,min=1"`
	IsAvailable     *bool                 `json:"is_available"`
	Amenities       *[]string             `json:"amenities"`
	Availability    *[]models.DaySchedule `json:"availability" validate:"omitempty,dive"`
}

// listingLimit is the number of non-rejected spaces the host may keep.
func (s *SpaceService) listingLimit(tx *gorm.DB, hostID uuid.UUID) (int, error) {
	var sub models.Subscription
	err := tx.Where("host_id = ? AND status = ? AND end_date > ?", hostID, models.SubscriptionActive, s.now()).
		Order("end_date DESC").First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.freeTierListing, nil
	}
	if err != nil {
		return 0, err
	}

	var plan models.Plan
	if err := tx.First(&plan, "id = ?", sub.PlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.freeTierListing, nil
		}
		return 0, err
	}
	return plan.MaxListings, nil
}

func (s *SpaceService) checkRefs(tx *gorm.DB, categoryID, locationID *uuid.UUID) error {
	if categoryID != nil {
		if err := tx.First(&models.Category{}, "id = ?", *categoryID).Error; err != nil {
			return lookup(err, ErrCategoryNotFound)
		}
	}
	if locationID != nil {
		if err := tx.First(&models.Location{}, "id = ?", *locationID).Error; err != nil {
			return lookup(err, ErrLocationNotFound)
		}
	}
	return nil
}

func (s *SpaceService) CreateSpace(ctx context.Context, hostID uuid.UUID, in CreateSpaceInput) (*models.Space, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	space := models.Space{
		HostID:          hostID,
		CategoryID:      in.CategoryID,
		LocationID:      in.LocationID,
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Address:         in.Address,
		PricePerHour:    in.PricePerHour,
		PricePerDay:     in.PricePerDay,
		Capacity:        in.InitialCapacity,
		InitialCapacity: in.InitialCapacity,
		IsAvailable:     true,
		ListingStatus:   models.ListingPending,
		IsApproved:      false,
		Amenities:       datatypes.JSONSlice[string](in.Amenities),
		Availability:    datatypes.JSONSlice[models.DaySchedule](in.Availability),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var host models.Host
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&host, "id = ?", hostID).Error; err != nil {
			return lookup(err, ErrHostNotFound)
		}
		if err := s.checkRefs(tx, in.CategoryID, in.LocationID); err != nil {
			return err
		}

		limit, err := s.listingLimit(tx, hostID)
		if err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.Space{}).
			Where("host_id = ? AND listing_status <> ?", hostID, models.ListingRejected).
			Count(&count).Error; err != nil {
			return err
		}
		if int(count) >= limit {
			return ErrListingLimitReached
		}

		return tx.Create(&space).Error
	})
	if err != nil {
		return nil, err
	}
	return &space, nil
}

func (s *SpaceService) ownedSpace(tx *gorm.DB, hostID, spaceID uuid.UUID, lock bool) (*models.Space, error) {
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var space models.Space
	if err := q.First(&space, "id = ?", spaceID).Error; err != nil {
		return nil, lookup(err, ErrSpaceNotFound)
	}
	if space.HostID != hostID {
		return nil, ErrNotOwner
	}
	return &space, nil
}

// applyCapacity shifts capacity by the change in initial capacity, clamped to
// [0, initialCapacity].
func applyCapacity(space *models.Space, newInitial int) {
	delta := newInitial - space.InitialCapacity
	capacity := space.Capacity + delta
	if capacity < 0 {
		capacity = 0
	}
	if capacity > newInitial {
		capacity = newInitial
	}
	space.InitialCapacity = newInitial
	space.Capacity = capacity
	if capacity == 0 {
		space.IsAvailable = false
	}
}

func (s *SpaceService) UpdateSpace(ctx context.Context, hostID, spaceID uuid.UUID, in UpdateSpaceInput) (*models.Space, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	var space *models.Space
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		space, err = s.ownedSpace(tx, hostID, spaceID, true)
		if err != nil {
			return err
		}
		if err := s.checkRefs(tx, in.CategoryID, in.LocationID); err != nil {
			return err
		}

		if in.Name != nil {
			space.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			space.Description = *in.Description
		}
		if in.Address != nil {
			space.Address = *in.Address
		}
		if in.CategoryID != nil {
			space.CategoryID = in.CategoryID
		}
		if in.LocationID != nil {
			space.LocationID = in.LocationID
		}
		if in.PricePerHour != nil {
			space.PricePerHour = *in.PricePerHour
		}
		if in.PricePerDay != nil {
			space.PricePerDay = *in.PricePerDay
		}
		if in.Amenities != nil {
			space.Amenities = datatypes.JSONSlice[string](*in.Amenities)
		}
		if in.Availability != nil {
			space.Availability = datatypes.JSONSlice[models.DaySchedule](*in.Availability)
		}
		if in.InitialCapacity != nil {
			applyCapacity(space, *in.InitialCapacity)
		}
		if in.IsAvailable != nil {
			if *in.IsAvailable && space.Capacity == 0 {
				return invalid("Space has no remaining capacity")
			}
			space.IsAvailable = *in.IsAvailable
		}

		return tx.Omit(clause.Associations).Save(space).Error
	})
	if err != nil {
		return nil, err
	}
	return space, nil
}

func (s *SpaceService) DeleteSpace(ctx context.Context, hostID, spaceID uuid.UUID) error {
	var images []models.SpaceImage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		space, err := s.ownedSpace(tx, hostID, spaceID, true)
		if err != nil {
			return err
		}
		if err := tx.Where("space_id = ?", space.ID).Find(&images).Error; err != nil {
			return err
		}
		if err := tx.Where("space_id = ?", space.ID).Delete(&models.SpaceImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("space_id = ?", space.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(space).Error
	})
	if err != nil {
		return err
	}

	for _, img := range images {
		if err := s.media.Destroy(ctx, img.PublicID); err != nil {
			log.Printf("🔥 Failed to destroy image %s of deleted space %s: %v", img.PublicID, spaceID, err)
		}
	}
	return nil
}

func (s *SpaceService) AddImages(ctx context.Context, hostID, spaceID uuid.UUID, files []ImageFile) ([]models.SpaceImage, error) {
	if len(files) == 0 {
		return nil, invalid("At least one image is required")
	}
	if _, err := s.ownedSpace(s.db.WithContext(ctx), hostID, spaceID, false); err != nil {
		return nil, err
	}

	images := make([]models.SpaceImage, 0, len(files))
	for _, f := range files {
		up, err := s.media.Upload(ctx, f.Reader, f.Name)
		if err != nil {
			s.destroyAll(ctx, images)
			return nil, upstream(err)
		}
		images = append(images, models.SpaceImage{SpaceID: spaceID, URL: up.URL, PublicID: up.PublicID})
	}

	if err := s.db.WithContext(ctx).Create(&images).Error; err != nil {
		s.destroyAll(ctx, images)
		return nil, err
	}
	return images, nil
}

func (s *SpaceService) destroyAll(ctx context.Context, images []models.SpaceImage) {
	for _, img := range images {
		if err := s.media.Destroy(ctx, img.PublicID); err != nil {
			log.Printf("🔥 Failed to clean up image %s: %v", img.PublicID, err)
		}
	}
}

func (s *SpaceService) RemoveImage(ctx context.Context, hostID, spaceID, imageID uuid.UUID) error {
	if _, err := s.ownedSpace(s.db.WithContext(ctx), hostID, spaceID, false); err != nil {
		return err
	}
	var img models.SpaceImage
	if err := s.db.WithContext(ctx).First(&img, "id = ? AND space_id = ?", imageID, spaceID).Error; err != nil {
		return lookup(err, ErrImageNotFound)
	}
	if err := s.media.Destroy(ctx, img.PublicID); err != nil {
		return upstream(err)
	}
	return s.db.WithContext(ctx).Delete(&img).Error
}

func (s *SpaceService) SignUpload() (*SignedUpload, error) {
	signed, err := s.media.SignUpload()
	if err != nil {
		return nil, upstream(err)
	}
	return signed, nil
}

func (s *SpaceService) moderate(ctx context.Context, spaceID uuid.UUID, apply func(*models.Space), note func(notifications.Recipient, *models.Space) models.Notification) (*models.Space, error) {
	var space models.Space
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&space, "id = ?", spaceID).Error; err != nil {
			return lookup(err, ErrSpaceNotFound)
		}
		var host models.Host
		if err := tx.First(&host, "id = ?", space.HostID).Error; err != nil {
			return lookup(err, ErrHostNotFound)
		}

		apply(&space)
		space.UpdatedAt = s.now()
		if err := tx.Select("listing_status", "is_approved", "rejection_reason", "is_available", "updated_at").Save(&space).Error; err != nil {
			return err
		}
		to := notifications.Recipient{ID: host.ID, Email: host.Email, Name: host.FullName}
		return notifications.Enqueue(tx, note(to, &space))
	})
	if err != nil {
		return nil, err
	}
	s.outbox.Kick()
	return &space, nil
}

func (s *SpaceService) ApproveSpace(ctx context.Context, spaceID uuid.UUID) (*models.Space, error) {
	return s.moderate(ctx, spaceID, func(sp *models.Space) {
		sp.ListingStatus = models.ListingActive
		sp.IsApproved = true
		sp.RejectionReason = nil
		sp.IsAvailable = sp.Capacity > 0
	}, notifications.SpaceApproved)
}

type RejectSpaceInput struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

func (s *SpaceService) RejectSpace(ctx context.Context, spaceID uuid.UUID, in RejectSpaceInput) (*models.Space, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	return s.moderate(ctx, spaceID, func(sp *models.Space) {
		reason := in.Reason
		sp.ListingStatus = models.ListingRejected
		sp.IsApproved = false
		sp.RejectionReason = &reason
	}, func(to notifications.Recipient, sp *models.Space) models.Notification {
		return notifications.SpaceRejected(to, sp, in.Reason)
	})
}

type SpaceFilter struct {
	CategoryID *uuid.UUID
	LocationID *uuid.UUID
	Search     string
	Page       int
	Limit      int
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// ListSpaces returns active listings for the public catalogue.
func (s *SpaceService) ListSpaces(ctx context.Context, f SpaceFilter) (*Page[models.Space], error) {
	page, limit := normalizePage(f.Page, f.Limit)

	q := s.db.WithContext(ctx).Model(&models.Space{}).Where("listing_status = ?", models.ListingActive)
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.LocationID != nil {
		q = q.Where("location_id = ?", *f.LocationID)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var spaces []models.Space
	err := q.Preload("Images").Preload("Category").Preload("Location").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&spaces).Error
	if err != nil {
		return nil, err
	}
	return &Page[models.Space]{Items: spaces, Total: total, Page: page, Limit: limit}, nil
}

func (s *SpaceService) GetSpace(ctx context.Context, spaceID uuid.UUID) (*models.Space, error) {
	var space models.Space
	err := s.db.WithContext(ctx).Preload("Images").Preload("Category").Preload("Location").
		Where("id = ? AND listing_status = ?", spaceID, models.ListingActive).
		First(&space).Error
	if err != nil {
		return nil, lookup(err, ErrSpaceNotFound)
	}
	return &space, nil
}

func (s *SpaceService) ListHostSpaces(ctx context.Context, hostID uuid.UUID) ([]models.Space, error) {
	var spaces []models.Space
	err := s.db.WithContext(ctx).Preload("Images").Where("host_id = ?", hostID).Order("created_at DESC").Find(&spaces).Error
	return spaces, err
}

func (s *SpaceService) AdminListSpaces(ctx context.Context, status models.ListingStatus) ([]models.Space, error) {
	q := s.db.WithContext(ctx).Preload("Images").Order("created_at ASC")
	if status != "" {
		switch status {
		case models.ListingPending, models.ListingActive, models.ListingRejected:
		default:
			return nil, invalid(fmt.Sprintf("Unknown listing status %q", status))
		}
		q = q.Where("listing_status = ?", status)
	}
	var spaces []models.Space
	return spaces, q.Find(&spaces).Error
}
