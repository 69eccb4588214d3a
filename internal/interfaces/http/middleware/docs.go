package middleware

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ParseAllowList turns addresses and CIDR ranges into prefixes. A bare
// address becomes a single-host prefix.
func ParseAllowList(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("allow list entry %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("allow list entry %q: %w", entry, err)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return prefixes, nil
}

// DocsAllowList restricts the API docs to clients inside the given prefixes.
// An empty list lets every client through.
func DocsAllowList(prefixes []netip.Prefix, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(prefixes) == 0 || allowed(prefixes, c.ClientIP()) {
			c.Next()
			return
		}
		log.Debug("docs request outside allow list", zap.String("client_ip", c.ClientIP()))
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeForbidden, "Access to API documentation is restricted", GetRequestID(c)))
	}
}

func allowed(prefixes []netip.Prefix, clientIP string) bool {
	addr, err := netip.ParseAddr(clientIP)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
