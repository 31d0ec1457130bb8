package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/adminpanel/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	ListUsers(ctx context.Context) ([]user.User, error)
	GetUser(ctx context.Context, id int64) (user.User, error)
	CreateUser(ctx context.Context, in user.Input) (user.User, error)
	UpdateUser(ctx context.Context, id int64, in user.Input) (user.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type UsersHandler struct {
	store UserStore
}

func NewUsersHandler(store UserStore) *UsersHandler {
	return &UsersHandler{store: store}
}

const storeTimeout = 3 * time.Second

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	users, err := h.store.ListUsers(cctx)
	if err != nil {
		h.internal(ctx, "Could not list users", err)
		return
	}

	RespondJSONWithETag(ctx, users)
}

func (h *UsersHandler) GetUser(ctx *gin.Context) {
	id, ok := userID(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	u, err := h.store.GetUser(cctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "Not found")
			return
		}
		h.internal(ctx, "Server error", err)
		return
	}

	RespondJSONWithETag(ctx, u)
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req user.Input

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	u, err := h.store.CreateUser(cctx, req)
	if err != nil {
		h.internal(ctx, "Could not create user", err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) UpdateUser(ctx *gin.Context) {
	id, ok := userID(ctx)
	if !ok {
		return
	}

	var req user.Input

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	u, err := h.store.UpdateUser(cctx, id, req)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found in database")
			return
		}
		h.internal(ctx, "Error updating user", err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) DeleteUser(ctx *gin.Context) {
	id, ok := userID(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	err := h.store.DeleteUser(cctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found in database")
			return
		}
		h.internal(ctx, "Could not delete user", err)
		return
	}

	RespondMessage(ctx, "User deleted")
}

func (h *UsersHandler) internal(ctx *gin.Context, message string, err error) {
	slog.ErrorContext(ctx.Request.Context(), "users store call failed", "route", ctx.FullPath(), "err", err)
	RespondInternal(ctx, message)
}

// userID parses :id. Anything that is not a positive integer cannot name a
// stored user, so it is answered as 404.
func userID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondNotFound(ctx, "Not found")
		return 0, false
	}

	return id, true
}
