package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionRouter() *gin.Engine {
	router := gin.New()
	router.Use(Session(SessionConfig{CookieName: "sid", TTL: time.Hour}))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetSessionID(c))
	})
	return router
}

func TestSession_IssuesFreshCookie(t *testing.T) {
	w := httptest.NewRecorder()
	newSessionRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	sessionID := w.Body.String()
	_, err := uuid.Parse(sessionID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, w.Header().Get(SessionHeader))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Equal(t, sessionID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestSession_ReusesCookie(t *testing.T) {
	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: existing})
	w := httptest.NewRecorder()
	newSessionRouter().ServeHTTP(w, req)

	assert.Equal(t, existing, w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func TestSession_HeaderWinsOverCookie(t *testing.T) {
	header := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(SessionHeader, header)
	req.AddCookie(&http.Cookie{Name: "sid", Value: uuid.NewString()})
	w := httptest.NewRecorder()
	newSessionRouter().ServeHTTP(w, req)

	assert.Equal(t, header, w.Body.String())
}

func TestSession_RejectsMalformedID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(SessionHeader, "cart:*")
	w := httptest.NewRecorder()
	newSessionRouter().ServeHTTP(w, req)

	assert.NotEqual(t, "cart:*", w.Body.String())
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
	assert.Len(t, w.Result().Cookies(), 1)
}
