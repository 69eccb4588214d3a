// Package testutil holds helpers shared by the end-to-end suites: a JSON API
// client that speaks the response envelope and a domain event recorder.
package testutil

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var seedSpace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// SeededUUID derives a stable UUID from seed, so a test can name its
// shoppers and reuse the same session across requests.
func SeededUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(seedSpace, []byte(seed))
}
