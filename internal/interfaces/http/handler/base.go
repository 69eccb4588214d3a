package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

var errNoUser = errors.New("user ID not found in context")

// BaseHandler is embedded by every handler for its reply and binding helpers
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// getUserID reads the subject of the verified access token
func getUserID(c *gin.Context) (uuid.UUID, error) {
	raw := middleware.GetJWTUserID(c)
	if raw == "" {
		return uuid.Nil, errNoUser
	}
	return uuid.Parse(raw)
}

// optionalUserID is nil for guests
func optionalUserID(c *gin.Context) *uuid.UUID {
	id, err := getUserID(c)
	if err != nil {
		return nil
	}
	return &id
}

func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail writes an error body for an API code. The status comes from the code;
// unknown codes are answered with a 500.
func (h *BaseHandler) Fail(c *gin.Context, code, message string) {
	status, ok := dto.StatusFor(code)
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Fail(c, dto.ErrCodeBadRequest, message)
}

func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Fail(c, dto.ErrCodeUnauthorized, message)
}

// bindJSON decodes and validates the body into req. On failure the error
// reply is already written.
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	return h.bound(c, c.ShouldBindJSON(req))
}

func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	return h.bound(c, c.ShouldBindQuery(req))
}

func (h *BaseHandler) bound(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	if details := middleware.ValidationDetails(err); len(details) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", getRequestID(c), details))
		return false
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		h.Fail(c, dto.ErrCodeRequestTooLarge, "Request body too large")
	case errors.Is(err, io.EOF):
		h.Fail(c, dto.ErrCodeInvalidJSON, "Request body is empty")
	default:
		h.Fail(c, dto.ErrCodeInvalidJSON, "Malformed request: "+err.Error())
	}
	return false
}

// parseUUIDParam answers 400 when the path parameter is not a UUID
func (h *BaseHandler) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+strings.ReplaceAll(name, "_", " ")+" format")
		return uuid.Nil, false
	}
	return id, true
}

// requireSession answers 400 when the session middleware did not run
func (h *BaseHandler) requireSession(c *gin.Context) (string, bool) {
	id := middleware.GetSessionID(c)
	if id == "" {
		h.BadRequest(c, "Missing session")
		return "", false
	}
	return id, true
}

// HandleError replies to a failed service call. Domain errors keep their
// message; codes without a status are rule violations and get a 422. Any
// other error is logged and hidden behind a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		status, ok := dto.StatusFor(code)
		if !ok {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, dto.NewErrorResponseWithRequestID(code, domainErr.Message, getRequestID(c)))
		return
	}

	logger.L(c.Request.Context()).Error("Unhandled request error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	h.Fail(c, dto.ErrCodeInternal, "An unexpected error occurred")
}
