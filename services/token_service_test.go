package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisTokenStoreRevoke(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisTokenStore(client)
	ctx := context.Background()

	mock.ExpectSet("revoked:jti-1", "1", time.Hour).SetVal("OK")
	mock.ExpectExists("revoked:jti-1").SetVal(1)
	mock.ExpectExists("revoked:jti-2").SetVal(0)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisTokenStoreOneTimeTokensAreSingleUse(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisTokenStore(client)
	ctx := context.Background()

	mock.ExpectSet("otp:reset:abc", "user-1", OneTimeTokenTTL).SetVal("OK")
	mock.ExpectGetDel("otp:reset:abc").SetVal("user-1")
	mock.ExpectGetDel("otp:reset:abc").RedisNil()

	require.NoError(t, store.SaveOneTime(ctx, PurposePasswordReset, "abc", "user-1", OneTimeTokenTTL))

	subject, err := store.ConsumeOneTime(ctx, PurposePasswordReset, "abc")
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)

	_, err = store.ConsumeOneTime(ctx, PurposePasswordReset, "abc")
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryTokenStoreExpiry(t *testing.T) {
	store := NewMemoryTokenStore()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.SaveOneTime(ctx, PurposeVerifyEmail, "tok", "host-1", OneTimeTokenTTL))
	require.NoError(t, store.Revoke(ctx, "jti", time.Minute))

	now = now.Add(16 * time.Minute)

	_, err := store.ConsumeOneTime(ctx, PurposeVerifyEmail, "tok")
	assert.ErrorIs(t, err, ErrInvalidToken)

	revoked, _ := store.IsRevoked(ctx, "jti")
	assert.False(t, revoked)
}

func TestMemoryTokenStoreConsume(t *testing.T) {
	store := NewMemoryTokenStore()
	ctx := context.Background()

	require.NoError(t, store.SaveOneTime(ctx, PurposeVerifyEmail, "tok", "host-1", OneTimeTokenTTL))
	subject, err := store.ConsumeOneTime(ctx, PurposeVerifyEmail, "tok")
	require.NoError(t, err)
	assert.Equal(t, "host-1", subject)

	_, err = store.ConsumeOneTime(ctx, PurposeVerifyEmail, "tok")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = store.ConsumeOneTime(ctx, PurposePasswordReset, "tok")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
