package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SwaggerConfig controls exposure of the API documentation endpoints.
// An empty AllowedIPs list leaves the docs open to any client; production
// configs either disable swagger or restrict it to operator networks.
type SwaggerConfig struct {
	Enabled    bool
	AllowedIPs []string
}

// ipAllowlist holds parsed single addresses and CIDR ranges.
type ipAllowlist struct {
	ips  []net.IP
	nets []*net.IPNet
}

func newIPAllowlist(entries []string) ipAllowlist {
	var list ipAllowlist
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			if _, network, err := net.ParseCIDR(entry); err == nil {
				list.nets = append(list.nets, network)
			}
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			list.ips = append(list.ips, ip)
		}
	}
	return list
}

func (l ipAllowlist) contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, allowed := range l.ips {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, network := range l.nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// SwaggerProtection guards the swagger routes. Disabled docs answer 404 so
// the endpoint's existence is not advertised; with an allowlist configured,
// clients outside it get 403.
func SwaggerProtection(cfg SwaggerConfig) gin.HandlerFunc {
	allowlist := newIPAllowlist(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "API documentation is not available",
			})
			return
		}

		if len(cfg.AllowedIPs) > 0 && !allowlist.contains(clientIP(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Access to API documentation is restricted",
			})
			return
		}

		c.Next()
	}
}

// clientIP resolves the caller's address, going through gin's trusted-proxy
// handling first and falling back to the raw remote address.
func clientIP(c *gin.Context) net.IP {
	if ip := net.ParseIP(c.ClientIP()); ip != nil {
		return ip
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		host = c.Request.RemoteAddr
	}
	return net.ParseIP(host)
}
