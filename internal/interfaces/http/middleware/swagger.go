package middleware

import (
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/glowetsu/backend/internal/interfaces/http/dto"
)

// SwaggerConfig holds configuration for Swagger endpoint protection
type SwaggerConfig struct {
	RequireAuth bool     // Require an editor token
	AllowedIPs  []string // IPs or CIDRs, empty = allow all
}

// ipAllowlist matches client addresses against single IPs and CIDR ranges
type ipAllowlist []netip.Prefix

// parseAllowlist skips entries that are neither an IP nor a CIDR
func parseAllowlist(entries []string) ipAllowlist {
	var list ipAllowlist
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if p, err := netip.ParsePrefix(entry); err == nil {
			list = append(list, p.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			list = append(list, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
		}
	}
	return list
}

func (l ipAllowlist) allows(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range l {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// SwaggerProtection restricts the documentation endpoint by client IP and,
// when RequireAuth is set, by auth
func SwaggerProtection(cfg SwaggerConfig, auth gin.HandlerFunc) gin.HandlerFunc {
	allowlist := parseAllowlist(cfg.AllowedIPs)
	restricted := len(cfg.AllowedIPs) > 0

	return func(c *gin.Context) {
		if restricted && !allowlist.allows(c.ClientIP()) {
			abortWithError(c, dto.ErrCodeForbidden, "Access to API documentation is restricted")
			return
		}
		if cfg.RequireAuth && auth != nil {
			if auth(c); c.IsAborted() {
				return
			}
		}
		c.Next()
	}
}
