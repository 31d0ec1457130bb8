package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/adminpanel/internal/http/handlers"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// RequireJSON answers 415 to POST/PUT/PATCH whose media type is not JSON.
// Parameters such as charset are ignored.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !carriesBody(c.Request.Method) || strings.EqualFold(c.ContentType(), binding.MIMEJSON) {
			c.Next()
			return
		}

		handlers.AbortWithError(c, http.StatusUnsupportedMediaType,
			"unsupported_media_type", "Content-Type must be application/json")
	}
}

func carriesBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}
