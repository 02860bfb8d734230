package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anjiri1684/spacehub/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService manages the categories and locations spaces are filed under.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

var (
	errCategoryExists = conflict("Category already exists")
	errLocationExists = conflict("Location already exists")
)

type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

type LocationInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	City    string `json:"city" validate:"omitempty,max=100"`
	State   string `json:"state" validate:"omitempty,max=100"`
	Country string `json:"country" validate:"omitempty,max=100"`
}

func (s *CatalogService) nameTaken(db *gorm.DB, model interface{}, name string, except uuid.UUID) (bool, error) {
	var count int64
	q := db.Model(model).Where("LOWER(name) = ?", strings.ToLower(name))
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	name := strings.TrimSpace(in.Name)
	taken, err := s.nameTaken(db, &models.Category{}, name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errCategoryExists
	}
	category := models.Category{Name: name, Description: in.Description}
	if err := db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errCategoryExists
		}
		return nil, err
	}
	return &category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	var category models.Category
	if err := db.First(&category, "id = ?", id).Error; err != nil {
		return nil, lookup(err, ErrCategoryNotFound)
	}
	name := strings.TrimSpace(in.Name)
	taken, err := s.nameTaken(db, &models.Category{}, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errCategoryExists
	}
	category.Name = name
	category.Description = in.Description
	if err := db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category and detaches the spaces filed under it.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Category{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return tx.Model(&models.Space{}).Where("category_id = ?", id).Update("category_id", nil).Error
	})
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, lookup(err, ErrCategoryNotFound)
	}
	return &category, nil
}

func (s *CatalogService) CreateLocation(ctx context.Context, in LocationInput) (*models.Location, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	name := strings.TrimSpace(in.Name)
	taken, err := s.nameTaken(db, &models.Location{}, name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errLocationExists
	}
	location := models.Location{Name: name, City: in.City, State: in.State, Country: in.Country}
	if err := db.Create(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errLocationExists
		}
		return nil, err
	}
	return &location, nil
}

func (s *CatalogService) UpdateLocation(ctx context.Context, id uuid.UUID, in LocationInput) (*models.Location, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	var location models.Location
	if err := db.First(&location, "id = ?", id).Error; err != nil {
		return nil, lookup(err, ErrLocationNotFound)
	}
	name := strings.TrimSpace(in.Name)
	taken, err := s.nameTaken(db, &models.Location{}, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errLocationExists
	}
	location.Name = name
	location.City = in.City
	location.State = in.State
	location.Country = in.Country
	if err := db.Save(&location).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (s *CatalogService) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Location{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrLocationNotFound
		}
		return tx.Model(&models.Space{}).Where("location_id = ?", id).Update("location_id", nil).Error
	})
}

func (s *CatalogService) ListLocations(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	err := s.db.WithContext(ctx).Order("name ASC").Find(&locations).Error
	return locations, err
}

func (s *CatalogService) GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var location models.Location
	if err := s.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		return nil, lookup(err, ErrLocationNotFound)
	}
	return &location, nil
}
