package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CacheConfig sets Cache-Control on API responses. Anonymous GETs of the
// public directory (clinics, doctors, testimonials, valid days) may be
// cached for MaxAge seconds; anything sent with credentials carries
// personal data and is never stored.
type CacheConfig struct {
	MaxAge int
	Vary   string
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxAge: 60,
		Vary:   "Authorization",
	}
}

func Cache(config CacheConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.Vary != "" {
			c.Header("Vary", config.Vary)
		}

		switch {
		case c.Request.Method != http.MethodGet,
			c.GetHeader("Authorization") != "",
			config.MaxAge <= 0:
			c.Header("Cache-Control", "no-store")
		default:
			c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", config.MaxAge))
		}

		c.Next()
	}
}
