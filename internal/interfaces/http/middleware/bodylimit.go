package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shop/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. Webhook
// payloads are small; anything larger is hostile or broken.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("REQUEST_TOO_LARGE", "Request body exceeds maximum allowed size"))
			return
		}

		// Streaming requests without Content-Length still get capped
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
