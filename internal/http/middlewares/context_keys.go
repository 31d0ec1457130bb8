package middlewares

// gin.Context keys shared by the middlewares and handlers.
const (
	CtxRequestID = "request_id"
	CtxAdminID   = "auth.adminID"
)
