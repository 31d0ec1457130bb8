package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/adminpanel/internal/actorctx"
	"github.com/geocoder89/adminpanel/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth answers 401 when no bearer token is presented and 403 when
// one is presented but does not verify. The 403 body is identical for
// malformed and expired tokens.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			handlers.AbortWithError(c, http.StatusUnauthorized, "unauthorized", "Access denied")
			return
		}

		adminID, err := m.verifier.Verify(raw)
		if err != nil {
			handlers.AbortWithError(c, http.StatusForbidden, "forbidden", "Invalid token")
			return
		}

		// Stash identity on both contexts
		c.Set(CtxAdminID, adminID)
		c.Request = c.Request.WithContext(actorctx.WithAdminID(c.Request.Context(), adminID))

		c.Next()
	}
}

func AdminIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxAdminID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
