package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// StaffOnly admits tokens carrying the admin permission. It runs after
// JWTAuth; log may be nil.
func StaffOnly(log *zap.Logger) gin.HandlerFunc {
	return RequirePermission(log, identity.PermissionAdmin)
}

// RequirePermission admits tokens carrying at least one of anyOf
func RequirePermission(log *zap.Logger, anyOf ...string) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		switch {
		case claims == nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
		case !claims.HasAnyPermission(anyOf...):
			log.Warn("Permission denied",
				zap.String("user_id", claims.UserID),
				zap.Strings("required_any", anyOf),
				zap.String("route", c.FullPath()),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "You do not have permission to perform this action", GetRequestID(c)))
		default:
			c.Next()
		}
	}
}
