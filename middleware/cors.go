package middleware

import (
	"net/http"

	"feed-api/pkg/config"

	"github.com/gin-gonic/gin"
)

const (
	allowedMethods = "GET, POST, OPTIONS"
	allowedHeaders = "Origin, Content-Type, Authorization, X-Request-ID"
	exposedHeaders = "X-Request-ID"
)

// CORSMiddleware allows any origin outside production. In production only
// origins listed in cfg.AllowedOrigins are reflected back.
//
// Only preflight requests (OPTIONS with Access-Control-Request-Method) are
// answered here; a plain OPTIONS reaches the router, which serves the
// resource schema.
func CORSMiddleware(cfg config.CORSConfig, production bool) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		c.Header("Vary", "Origin")

		if !production {
			c.Header("Access-Control-Allow-Origin", "*")
			setCORSHeaders(c)
		} else if origin != "" {
			if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				setCORSHeaders(c)
				if cfg.AllowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
			}
		}

		if isPreflight(c.Request) {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func setCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Methods", allowedMethods)
	c.Header("Access-Control-Allow-Headers", allowedHeaders)
	c.Header("Access-Control-Expose-Headers", exposedHeaders)
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}
