package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 testSecret,
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "storefront-test",
		MaxRefreshCount:        3,
	}
}

func staff() Subject {
	return Subject{UserID: uuid.New(), Username: "asha", Permissions: []string{"admin"}}
}

func TestNewJWTService_RefreshSecretFallback(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "only-secret"})
	assert.Equal(t, []byte("only-secret"), svc.refresh.secret)

	svc = NewJWTService(testJWTConfig())
	assert.NotEqual(t, svc.access.secret, svc.refresh.secret)
}

func TestIssue(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	sub := staff()

	pair, err := svc.Issue(sub)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

	access, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sub.UserID.String(), access.UserID)
	assert.Equal(t, sub.UserID.String(), access.Subject)
	assert.Equal(t, TokenTypeAccess, access.TokenType)
	assert.True(t, access.HasPermission("admin"))
	assert.NotEmpty(t, access.ID)
	assert.Greater(t, access.RemainingTTL(), 14*time.Minute)

	userID, err := access.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, userID)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.Permissions)
	assert.Equal(t, 0, refresh.RefreshCount)
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestValidate_Failures(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	pair, err := svc.Issue(staff())
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token signed with refresh secret", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("swapped types under one secret", func(t *testing.T) {
		single := NewJWTService(config.JWTConfig{
			Secret:                 testSecret,
			AccessTokenExpiration:  time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "storefront-test",
		})
		p, err := single.Issue(staff())
		require.NoError(t, err)

		_, err = single.ValidateAccessToken(p.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
		_, err = single.ValidateRefreshToken(p.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("other secret", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.Secret = "another-secret-key-at-least-32-chars"
		_, err := NewJWTService(cfg).ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.Issuer = "someone-else"
		_, err := NewJWTService(cfg).ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidate_Clock(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	pair, err := svc.Issue(staff())
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(10 * time.Minute) }
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(16 * time.Minute) }
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)

	svc.now = func() time.Time { return issuedAt.Add(-time.Hour) }
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenNotYetValid)
}

func TestRotate(t *testing.T) {
	t.Run("reissues with current permissions", func(t *testing.T) {
		svc := NewJWTService(testJWTConfig())
		sub := staff()
		pair, err := svc.Issue(sub)
		require.NoError(t, err)

		refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		rotated, err := svc.Rotate(refresh, nil)
		require.NoError(t, err)

		access, err := svc.ValidateAccessToken(rotated.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, sub.Username, access.Username)
		assert.False(t, access.HasPermission("admin"))

		next, err := svc.ValidateRefreshToken(rotated.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, next.RefreshCount)
	})

	t.Run("stops at the rotation limit", func(t *testing.T) {
		svc := NewJWTService(testJWTConfig())
		pair, err := svc.Issue(staff())
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
			require.NoError(t, err)
			pair, err = svc.Rotate(claims, nil)
			require.NoError(t, err)
		}

		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		_, err = svc.Rotate(claims, nil)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("rejects access claims", func(t *testing.T) {
		svc := NewJWTService(testJWTConfig())
		pair, err := svc.Issue(staff())
		require.NoError(t, err)
		access, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		_, err = svc.Rotate(access, nil)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("rejects a malformed user id", func(t *testing.T) {
		svc := NewJWTService(testJWTConfig())
		_, err := svc.Rotate(&Claims{UserID: "nope", TokenType: TokenTypeRefresh}, nil)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestClaims(t *testing.T) {
	claims := &Claims{Permissions: []string{"admin"}}
	assert.True(t, claims.HasPermission("admin"))
	assert.False(t, claims.HasPermission("orders"))
	assert.True(t, claims.HasAnyPermission("orders", "admin"))
	assert.False(t, (&Claims{}).HasAnyPermission("admin"))

	assert.Equal(t, time.Duration(0), (&Claims{}).RemainingTTL())
}
