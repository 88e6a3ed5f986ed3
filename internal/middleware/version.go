package middleware

import (
	"github.com/gin-gonic/gin"
)

const HeaderAPIVersion = "X-API-Version"

// Version reports the API version on every response of the group it is
// mounted on.
func Version(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(HeaderAPIVersion, version)
		c.Next()
	}
}
