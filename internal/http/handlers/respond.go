package handlers

import (
	"net/http"

	"github.com/geocoder89/adminpanel/internal/actorctx"
	"github.com/gin-gonic/gin"
)

// APIError is the body of every failed request, wrapped as {"error": ...}.
type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

func envelope(ctx *gin.Context, code, message string, details interface{}) errorEnvelope {
	id, ok := actorctx.RequestIDFrom(ctx.Request.Context())
	if !ok {
		id = ctx.GetHeader("X-Request-Id")
	}

	return errorEnvelope{Error: APIError{
		Code:      code,
		Message:   message,
		RequestID: id,
		Details:   details,
	}}
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, envelope(ctx, code, message, details))
}

// AbortWithError is RespondError for middlewares: it also stops the chain.
func AbortWithError(ctx *gin.Context, status int, code, message string) {
	ctx.AbortWithStatusJSON(status, envelope(ctx, code, message, nil))
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondMessage(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, gin.H{"message": message})
}
