package http

import (
	"context"
	"log/slog"

	"github.com/geocoder89/adminpanel/internal/config"
	"github.com/geocoder89/adminpanel/internal/http/handlers"
	"github.com/geocoder89/adminpanel/internal/http/middlewares"
	"github.com/geocoder89/adminpanel/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps are the collaborators the routes dispatch to.
type Deps struct {
	Sessions handlers.Sessions
	Verifier middlewares.TokenVerifier
	Users    handlers.UserStore

	// Optional. A nil Ping is always ready, a nil Prom disables /metrics,
	// a nil LoginLimiter disables auth rate limiting.
	Ping         func(ctx context.Context) error
	Prom         *observability.Prom
	Gatherer     prometheus.Gatherer
	LoginLimiter middlewares.Limiter
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())

		gatherer := deps.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	health := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	api := r.Group("/api")
	api.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	// auth
	var authMetrics handlers.AuthMetrics
	if deps.Prom != nil {
		authMetrics = deps.Prom
	}
	authHandler := handlers.NewAuthHandler(deps.Sessions, authMetrics)

	authGroup := api.Group("/auth")
	if deps.LoginLimiter != nil {
		authGroup.Use(middlewares.RateLimit(deps.LoginLimiter, middlewares.KeyByIP))
	}
	authGroup.Use(middlewares.RequireJSON())
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// users, bearer token required
	authMW := middlewares.NewAuthMiddleware(deps.Verifier)
	usersHandler := handlers.NewUsersHandler(deps.Users)

	users := api.Group("/users")
	// identity first, so anonymous callers get 401 whatever they send
	users.Use(authMW.RequireAuth(), middlewares.RequireJSON())
	users.GET("", usersHandler.ListUsers)
	users.GET("/:id", usersHandler.GetUser)
	users.POST("", usersHandler.CreateUser)
	users.PUT("/:id", usersHandler.UpdateUser)
	users.DELETE("/:id", usersHandler.DeleteUser)

	return r
}
