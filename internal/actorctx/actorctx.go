// Package actorctx carries the request id and the authenticated admin id
// on a context.Context so code below the HTTP layer can log them.
package actorctx

import "context"

type ctxKey string

const (
	keyAdminID   ctxKey = "admin_id"
	keyRequestID ctxKey = "request_id"
)

func WithAdminID(ctx context.Context, adminID int64) context.Context {
	return context.WithValue(ctx, keyAdminID, adminID)
}

func AdminIDFrom(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(keyAdminID).(int64)

	return v, ok && v != 0
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

func RequestIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)

	return v, ok && v != ""
}
