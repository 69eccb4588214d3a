package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(svc *MockAuthService, claims *auth.Claims) http.Handler {
	h := NewAuthHandler(svc)
	r := newTestRouter()
	if claims != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.JWTClaimsKey, claims)
			c.Set(middleware.JWTUserIDKey, claims.UserID)
			c.Next()
		})
	}
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", h.Me)
	return r
}

func sampleAuthResult(userID uuid.UUID) *identity.AuthResult {
	return &identity.AuthResult{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		User:         &identity.UserInfo{ID: userID, Username: "asha"},
	}
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, nil)
		req := identity.RegisterRequest{
			Username:  "asha",
			Email:     "asha@example.com",
			Password:  "s3cretpass",
			Password2: "s3cretpass",
		}
		svc.On("Register", mock.Anything, req).Return(sampleAuthResult(uuid.New()), nil)

		w := performRequest(r, http.MethodPost, "/auth/register", req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "access", data["access_token"])
	})

	t.Run("username taken", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, nil)
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, identity.ErrUsernameTaken)

		w := performRequest(r, http.MethodPost, "/auth/register", identity.RegisterRequest{
			Username: "asha", Email: "asha@example.com", Password: "s3cretpass", Password2: "s3cretpass",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, decodeResponse(t, w).Error.Code)
	})

	t.Run("password mismatch", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, nil)
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, identity.ErrPasswordMismatch)

		w := performRequest(r, http.MethodPost, "/auth/register", identity.RegisterRequest{
			Username: "asha", Email: "asha@example.com", Password: "s3cretpass", Password2: "different1",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodePasswordMismatch, decodeResponse(t, w).Error.Code)
	})

	t.Run("short password", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, nil)

		w := performRequest(r, http.MethodPost, "/auth/register", identity.RegisterRequest{
			Username: "asha", Email: "asha@example.com", Password: "short", Password2: "short",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(MockAuthService)
	r := setupAuthRouter(svc, nil)
	good := identity.LoginRequest{Username: "asha", Password: "s3cretpass"}
	bad := identity.LoginRequest{Username: "asha", Password: "wrong"}
	svc.On("Login", mock.Anything, good).Return(sampleAuthResult(uuid.New()), nil)
	svc.On("Login", mock.Anything, bad).Return(nil, identity.ErrInvalidCredentials)

	w := performRequest(r, http.MethodPost, "/auth/login", good)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, http.MethodPost, "/auth/login", bad)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidCredentials, decodeResponse(t, w).Error.Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	svc := new(MockAuthService)
	r := setupAuthRouter(svc, nil)
	svc.On("Refresh", mock.Anything, identity.RefreshRequest{RefreshToken: "stale"}).
		Return(nil, identity.ErrInvalidCredentials)

	w := performRequest(r, http.MethodPost, "/auth/refresh", identity.RefreshRequest{RefreshToken: "stale"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes the token jti", func(t *testing.T) {
		svc := new(MockAuthService)
		userID := uuid.New()
		claims := &auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "jti-123",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
			},
			UserID: userID.String(),
		}
		r := setupAuthRouter(svc, claims)
		svc.On("Logout", mock.Anything, mock.MatchedBy(func(in identity.LogoutInput) bool {
			return in.UserID == userID && in.TokenJTI == "jti-123" &&
				in.TokenTTL > 9*time.Minute && in.TokenTTL <= 10*time.Minute
		})).Return(nil)

		w := performRequest(r, http.MethodPost, "/auth/logout", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("without claims", func(t *testing.T) {
		r := setupAuthRouter(new(MockAuthService), nil)
		w := performRequest(r, http.MethodPost, "/auth/logout", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	svc := new(MockAuthService)
	userID := uuid.New()
	r := setupAuthRouter(svc, &auth.Claims{UserID: userID.String()})
	svc.On("Me", mock.Anything, userID).Return(&identity.UserInfo{ID: userID, Username: "asha"}, nil)

	w := performRequest(r, http.MethodGet, "/auth/me", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "asha", decodeResponse(t, w).Data.(map[string]any)["username"])
}
