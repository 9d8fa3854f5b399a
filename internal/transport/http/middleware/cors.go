package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods = "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS"
	corsAllowHeaders = "Origin,Content-Type,Accept,X-Request-ID"
	corsMaxAge       = "86400"
)

type corsPolicy struct {
	allowAll bool
	origins  map[string]struct{}
}

func (p corsPolicy) resolve(origin string) (string, bool) {
	if p.allowAll {
		return "*", true
	}
	if _, ok := p.origins[origin]; ok {
		return origin, true
	}
	return "", false
}

// CORS adds Cross-Origin Resource Sharing headers for the configured
// origins. Credentials are only allowed for explicit origins; the
// wildcard form forbids them.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	policy := corsPolicy{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			policy.allowAll = true
			continue
		}
		policy.origins[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		c.Header("Vary", "Origin")

		origin := c.Request.Header.Get("Origin")
		if allowed, ok := policy.resolve(origin); ok {
			c.Header("Access-Control-Allow-Origin", allowed)
			if !policy.allowAll {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", corsAllowMethods)
			c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
			c.Header("Access-Control-Max-Age", corsMaxAge)

			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
