package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenRepository(t *testing.T) (TokenRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisTokenRepository(client), mr
}

// ===================== SaveRefreshToken Tests =====================

func TestRedisTokenRepository_SaveAndGet(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo, _ := setupTokenRepository(t)

	userID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)

	// Act
	err := repo.SaveRefreshToken(ctx, userID, "refresh-token-1", expiresAt)
	require.NoError(t, err)

	gotUserID, err := repo.GetRefreshToken(ctx, "refresh-token-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, userID, gotUserID)
}

func TestRedisTokenRepository_SaveExpiredToken(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTokenRepository(t)

	// Токен с истекшим сроком не сохраняется
	err := repo.SaveRefreshToken(ctx, uuid.New(), "stale-token", time.Now().Add(-time.Minute))

	assert.Error(t, err)
}

func TestRedisTokenRepository_TokenExpiresWithTTL(t *testing.T) {
	ctx := context.Background()
	repo, mr := setupTokenRepository(t)

	userID := uuid.New()
	require.NoError(t, repo.SaveRefreshToken(ctx, userID, "short-lived", time.Now().Add(time.Minute)))

	// Перематываем время за границу TTL
	mr.FastForward(2 * time.Minute)

	_, err := repo.GetRefreshToken(ctx, "short-lived")
	assert.Error(t, err)
}

// ===================== GetRefreshToken Tests =====================

func TestRedisTokenRepository_GetUnknownToken(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTokenRepository(t)

	_, err := repo.GetRefreshToken(ctx, "never-issued")

	assert.Error(t, err)
}

// ===================== DeleteRefreshToken Tests =====================

func TestRedisTokenRepository_DeleteRevokesToken(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTokenRepository(t)

	userID := uuid.New()
	require.NoError(t, repo.SaveRefreshToken(ctx, userID, "rotating-token", time.Now().Add(time.Hour)))

	// Act: ротация - использованный токен отзывается
	require.NoError(t, repo.DeleteRefreshToken(ctx, "rotating-token"))

	// Assert
	_, err := repo.GetRefreshToken(ctx, "rotating-token")
	assert.Error(t, err)
}

// ===================== DeleteUserTokens Tests =====================

func TestRedisTokenRepository_DeleteUserTokensRevokesAllSessions(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTokenRepository(t)

	userID := uuid.New()
	otherUserID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)

	require.NoError(t, repo.SaveRefreshToken(ctx, userID, "session-a", expiresAt))
	require.NoError(t, repo.SaveRefreshToken(ctx, userID, "session-b", expiresAt))
	require.NoError(t, repo.SaveRefreshToken(ctx, otherUserID, "other-session", expiresAt))

	// Act: logout отзывает все сессии пользователя
	require.NoError(t, repo.DeleteUserTokens(ctx, userID))

	// Assert
	_, err := repo.GetRefreshToken(ctx, "session-a")
	assert.Error(t, err)
	_, err = repo.GetRefreshToken(ctx, "session-b")
	assert.Error(t, err)

	// Сессии других пользователей не затронуты
	got, err := repo.GetRefreshToken(ctx, "other-session")
	require.NoError(t, err)
	assert.Equal(t, otherUserID, got)
}
