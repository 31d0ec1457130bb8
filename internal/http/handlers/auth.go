package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/adminpanel/internal/session"
	"github.com/gin-gonic/gin"
)

type Sessions interface {
	Register(ctx context.Context, email, password string) (int64, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthMetrics records register/login outcomes. *observability.Prom satisfies it.
type AuthMetrics interface {
	ObserveAuth(op, result string)
}

type AuthHandler struct {
	sessions Sessions
	metrics  AuthMetrics
}

func NewAuthHandler(sessions Sessions, metrics AuthMetrics) *AuthHandler {
	return &AuthHandler{sessions: sessions, metrics: metrics}
}

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req CredentialsRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// bcrypt dominates here, so allow a little longer than the lookup
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	adminID, err := h.sessions.Register(cctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrConflict) {
			h.observe("register", "conflict")
			RespondError(ctx, http.StatusBadRequest, "email_taken", "Email already exists", nil)
			return
		}

		h.observe("register", "error")
		slog.ErrorContext(ctx.Request.Context(), "register failed", "err", err)
		RespondInternal(ctx, "Could not create admin")
		return
	}

	h.observe("register", "ok")

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Admin created",
		"adminId": adminID,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req CredentialsRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	token, err := h.sessions.Login(cctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			h.observe("login", "not_found")
			RespondError(ctx, http.StatusBadRequest, "user_not_found", "User not found", nil)
		case errors.Is(err, session.ErrUnauthorized):
			h.observe("login", "invalid_password")
			RespondError(ctx, http.StatusBadRequest, "invalid_password", "Invalid password", nil)
		default:
			h.observe("login", "error")
			slog.ErrorContext(ctx.Request.Context(), "login failed", "err", err)
			RespondInternal(ctx, "Could not log in")
		}
		return
	}

	h.observe("login", "ok")

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) observe(op, result string) {
	if h.metrics != nil {
		h.metrics.ObserveAuth(op, result)
	}
}
