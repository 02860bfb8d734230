package services

import (
	"context"
	"testing"

	"github.com/anjiri1684/spacehub/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCRUD(t *testing.T) {
	svc := NewCatalogService(openDB(t))
	ctx := context.Background()

	studio, err := svc.CreateCategory(ctx, CategoryInput{Name: "Studio", Description: "Photo and video"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "studio"})
	require.ErrorIs(t, err, ErrConflict)

	desk, err := svc.CreateCategory(ctx, CategoryInput{Name: "Hot desk"})
	require.NoError(t, err)

	_, err = svc.UpdateCategory(ctx, desk.ID, CategoryInput{Name: "Studio"})
	assert.ErrorIs(t, err, ErrConflict)

	renamed, err := svc.UpdateCategory(ctx, desk.ID, CategoryInput{Name: "Dedicated desk"})
	require.NoError(t, err)
	assert.Equal(t, "Dedicated desk", renamed.Name)

	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Dedicated desk", list[0].Name)

	host := seedHost(t, svc.db)
	space := seedSpace(t, svc.db, host.ID, 1, func(s *models.Space) { s.CategoryID = &studio.ID })

	require.NoError(t, svc.DeleteCategory(ctx, studio.ID))
	_, err = svc.GetCategory(ctx, studio.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.ErrorIs(t, svc.DeleteCategory(ctx, studio.ID), ErrCategoryNotFound)

	var reloaded models.Space
	require.NoError(t, svc.db.First(&reloaded, "id = ?", space.ID).Error)
	assert.Nil(t, reloaded.CategoryID)
}

func TestLocationCRUD(t *testing.T) {
	svc := NewCatalogService(openDB(t))
	ctx := context.Background()

	_, err := svc.CreateLocation(ctx, LocationInput{Name: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	yaba, err := svc.CreateLocation(ctx, LocationInput{Name: "Yaba", City: "Lagos", State: "Lagos", Country: "Nigeria"})
	require.NoError(t, err)

	_, err = svc.CreateLocation(ctx, LocationInput{Name: "Yaba"})
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := svc.UpdateLocation(ctx, yaba.ID, LocationInput{Name: "Yaba", City: "Lagos Mainland"})
	require.NoError(t, err)
	assert.Equal(t, "Lagos Mainland", updated.City)

	got, err := svc.GetLocation(ctx, yaba.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yaba", got.Name)

	_, err = svc.UpdateLocation(ctx, uuid.New(), LocationInput{Name: "Ikeja"})
	assert.ErrorIs(t, err, ErrLocationNotFound)

	require.NoError(t, svc.DeleteLocation(ctx, yaba.ID))
	list, err := svc.ListLocations(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
