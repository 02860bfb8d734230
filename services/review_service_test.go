package services

import (
	"context"
	"testing"

	"github.com/anjiri1684/spacehub/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spaceRating(t *testing.T, svc *ReviewService, id uuid.UUID) float64 {
	t.Helper()
	var s models.Space
	require.NoError(t, svc.db.First(&s, "id = ?", id).Error)
	return s.AverageRating
}

func TestReviewLifecycleKeepsAverage(t *testing.T) {
	svc := NewReviewService(openDB(t))
	host := seedHost(t, svc.db)
	space := seedSpace(t, svc.db, host.ID, 3)
	alice := seedUser(t, svc.db)
	bob := seedUser(t, svc.db)
	ctx := context.Background()

	first, err := svc.CreateReview(ctx, alice.ID, space.ID, ReviewInput{Rating: 5, Comment: "Quiet and bright"})
	require.NoError(t, err)
	assert.Equal(t, alice.FullName, first.UserName)
	assert.InDelta(t, 5.0, spaceRating(t, svc, space.ID), 0.001)

	_, err = svc.CreateReview(ctx, bob.ID, space.ID, ReviewInput{Rating: 2})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, spaceRating(t, svc, space.ID), 0.001)

	three := 3
	_, err = svc.UpdateReview(ctx, alice.ID, first.ID, ReviewUpdate{Rating: &three})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, spaceRating(t, svc, space.ID), 0.001)

	_, err = svc.UpdateReview(ctx, bob.ID, first.ID, ReviewUpdate{Rating: &three})
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, svc.DeleteReview(ctx, alice.ID, first.ID))
	assert.InDelta(t, 2.0, spaceRating(t, svc, space.ID), 0.001)

	reviews, err := svc.ListSpaceReviews(ctx, space.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestDuplicateReviewLeavesOriginal(t *testing.T) {
	svc := NewReviewService(openDB(t))
	host := seedHost(t, svc.db)
	space := seedSpace(t, svc.db, host.ID, 3)
	user := seedUser(t, svc.db)
	ctx := context.Background()

	original, err := svc.CreateReview(ctx, user.ID, space.ID, ReviewInput{Rating: 4, Comment: "Good"})
	require.NoError(t, err)

	_, err = svc.CreateReview(ctx, user.ID, space.ID, ReviewInput{Rating: 1, Comment: "Changed my mind"})
	require.ErrorIs(t, err, ErrDuplicateReview)
	assert.Equal(t, "You already have a review for this space", err.Error())

	var stored models.Review
	require.NoError(t, svc.db.First(&stored, "id = ?", original.ID).Error)
	assert.Equal(t, 4, stored.Rating)
	assert.Equal(t, "Good", stored.Comment)
	assert.InDelta(t, 4.0, spaceRating(t, svc, space.ID), 0.001)
}

func TestReviewValidation(t *testing.T) {
	svc := NewReviewService(openDB(t))
	host := seedHost(t, svc.db)
	space := seedSpace(t, svc.db, host.ID, 3)
	user := seedUser(t, svc.db)

	_, err := svc.CreateReview(context.Background(), user.ID, space.ID, ReviewInput{Rating: 6})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateReview(context.Background(), user.ID, uuid.New(), ReviewInput{Rating: 3})
	assert.ErrorIs(t, err, ErrSpaceNotFound)

	_, err = svc.ListSpaceReviews(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSpaceNotFound)
}

func TestAdminDeletesAnyReview(t *testing.T) {
	svc := NewReviewService(openDB(t))
	host := seedHost(t, svc.db)
	space := seedSpace(t, svc.db, host.ID, 3)
	user := seedUser(t, svc.db)

	r, err := svc.CreateReview(context.Background(), user.ID, space.ID, ReviewInput{Rating: 4})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteReview(context.Background(), uuid.Nil, r.ID))
	assert.Zero(t, spaceRating(t, svc, space.ID))

	err = svc.DeleteReview(context.Background(), uuid.Nil, r.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
