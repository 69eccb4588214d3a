package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// SessionHeader lets API clients without cookies carry their session
const SessionHeader = "X-Session-ID"

// SessionConfig holds the shopper session cookie settings
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	Domain     string
}

// Session resolves the shopper session from the cookie or the X-Session-ID
// header. Requests without a well-formed session get a fresh UUID, which is
// written back as a cookie and echoed in the header.
func Session(cfg SessionConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "storefront_session"
	}
	maxAge := int(cfg.TTL.Seconds())

	return func(c *gin.Context) {
		sessionID, fresh := resolveSessionID(c, cfg.CookieName)

		if fresh {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.CookieName, sessionID, maxAge, "/", cfg.Domain, cfg.Secure, true)
		}
		c.Writer.Header().Set(SessionHeader, sessionID)

		c.Set(logger.GinSessionIDKey, sessionID)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), sessionID))
		c.Next()
	}
}

func resolveSessionID(c *gin.Context, cookieName string) (string, bool) {
	if id := c.GetHeader(SessionHeader); isSessionID(id) {
		return id, false
	}
	if id, err := c.Cookie(cookieName); err == nil && isSessionID(id) {
		return id, false
	}
	return uuid.NewString(), true
}

// Session IDs double as store keys, so only UUIDs are accepted
func isSessionID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// GetSessionID returns the session ID set by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(logger.GinSessionIDKey)
}
