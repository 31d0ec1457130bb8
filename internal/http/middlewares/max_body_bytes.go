package middlewares

import (
	"net/http"

	"github.com/geocoder89/adminpanel/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

// MaxBodyBytes rejects a declared Content-Length above limit with 413 and
// caps undeclared (chunked) bodies while they are read. A non-positive
// limit disables both.
func MaxBodyBytes(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			handlers.AbortWithError(c, http.StatusRequestEntityTooLarge,
				"payload_too_large", "Request body too large")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
