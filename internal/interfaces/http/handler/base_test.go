package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// newTestRouter returns an engine that assigns testSessionID to every request
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(logger.GinSessionIDKey, testSessionID)
		c.Next()
	})
	return r
}

// withUser simulates a request authenticated as userID
func withUser(userID uuid.UUID, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := &auth.Claims{UserID: userID.String(), Permissions: permissions}
		c.Set(middleware.JWTClaimsKey, claims)
		c.Set(middleware.JWTUserIDKey, claims.UserID)
		c.Next()
	}
}

// performRequest sends body as JSON unless it is nil or a string
func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	switch b := body.(type) {
	case nil:
		buf = &bytes.Buffer{}
	case string:
		buf = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		buf = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context",
			setup: func(c *gin.Context) {
				c.Set(logger.GinRequestIDKey, "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set(middleware.RequestIDHeader, "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(*gin.Context) {},
			expectedID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestGetUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := getUserID(c)
	assert.ErrorIs(t, err, errNoUser)
	assert.Nil(t, optionalUserID(c))

	userID := uuid.New()
	c.Set(middleware.JWTUserIDKey, userID.String())
	got, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Equal(t, &userID, optionalUserID(c))
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"suffix not found", shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found."), http.StatusNotFound, dto.ErrCodeNotFound},
		{"already exists", shared.NewDomainError("EMAIL_EXISTS", "Email taken"), http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"insufficient stock", shared.ErrInsufficientStock, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{"invalid input prefix", shared.NewDomainError("INVALID_QUANTITY", "bad"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"unmapped business rule", shared.NewDomainError("COUPON_EXPIRED", "This coupon has expired or is no longer valid."), http.StatusUnprocessableEntity, "COUPON_EXPIRED"},
		{"wrapped domain error", fmt.Errorf("wrap: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}
}

func TestBaseHandler_PlainErrorHidesMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	(&BaseHandler{}).HandleError(c, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password authentication")
}

type bindTarget struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
}

func TestBaseHandler_BindJSON(t *testing.T) {
	h := &BaseHandler{}
	r := newTestRouter()
	r.POST("/bind", func(c *gin.Context) {
		var req bindTarget
		if !h.bindJSON(c, &req) {
			return
		}
		h.Success(c, req)
	})

	t.Run("valid", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/bind", map[string]string{"name": "Asha"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("validation details use json names", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/bind", map[string]string{"email": "nope"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		fields := make([]string, 0, len(resp.Error.Details))
		for _, d := range resp.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"name", "email"}, fields)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/bind", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, w).Error.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/bind", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
		assert.Equal(t, "Request body is empty", resp.Error.Message)
	})
}

func TestBaseHandler_Fail(t *testing.T) {
	h := &BaseHandler{}
	tests := []struct {
		code   string
		status int
	}{
		{dto.ErrCodeRateLimited, http.StatusTooManyRequests},
		{dto.ErrCodeUnavailable, http.StatusServiceUnavailable},
		{"ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set(middleware.RequestIDHeader, "req-1")

		h.Fail(c, tt.code, "nope")

		assert.Equal(t, tt.status, w.Code, tt.code)
		resp := decodeResponse(t, w)
		assert.Equal(t, tt.code, resp.Error.Code)
		assert.Equal(t, "req-1", resp.Error.RequestID)
	}
}

func TestBaseHandler_ParseUUIDParam(t *testing.T) {
	h := &BaseHandler{}
	r := newTestRouter()
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := h.parseUUIDParam(c, "id")
		if !ok {
			return
		}
		h.Success(c, id.String())
	})

	id := uuid.New()
	w := performRequest(r, http.MethodGet, "/items/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), decodeResponse(t, w).Data)

	w = performRequest(r, http.MethodGet, "/items/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
