package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-booking/internal/handler"
)

const MsgBodyTooLarge = "حجم الطلب أكبر من المسموح"

// SizeLimitConfig caps request bodies. Multipart requests carry clinic
// videos and doctor images and get the larger upload limit.
type SizeLimitConfig struct {
	MaxBodySize   int64
	MaxUploadSize int64
}

func DefaultSizeLimitConfig() SizeLimitConfig {
	return SizeLimitConfig{
		MaxBodySize:   1 << 20,
		MaxUploadSize: 64 << 20,
	}
}

// SizeLimit rejects requests whose declared length is over the limit and
// caps the body reader for those that do not declare one.
func SizeLimit(config SizeLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := config.MaxBodySize
		if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
			limit = config.MaxUploadSize
		}
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, handler.Response{
				Status:  "error",
				Message: MsgBodyTooLarge,
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
