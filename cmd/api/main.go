package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/adminpanel/internal/auth"
	"github.com/geocoder89/adminpanel/internal/config"
	httpx "github.com/geocoder89/adminpanel/internal/http"
	"github.com/geocoder89/adminpanel/internal/http/middlewares"
	"github.com/geocoder89/adminpanel/internal/observability"
	"github.com/geocoder89/adminpanel/internal/redisclient"
	"github.com/geocoder89/adminpanel/internal/repo"
	"github.com/geocoder89/adminpanel/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName: cfg.ServiceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	store, err := repo.Open(ctx, cfg, prom)
	if err != nil {
		log.Error("store open failed", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	issuer := session.NewIssuer(store, auth.NewManager(cfg.JWTSecret, cfg.TokenTTL))

	created, err := issuer.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Error("bootstrap admin failed", "err", err)
		os.Exit(1)
	}
	if created {
		log.Info("bootstrap admin created", "email", cfg.AdminEmail)
	}

	var limiter middlewares.Limiter = middlewares.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)

	if cfg.RedisAddr != "" {
		rc, err := redisclient.Connect(ctx, redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn("redis unavailable, using in-process rate limiter", "err", err)
		} else {
			defer rc.Close()
			limiter = middlewares.NewRedisRateLimiter(rc.Raw(), cfg.LoginRateLimit, cfg.LoginRateWindow)
		}
	}

	// set up routers with the log
	router := httpx.NewRouter(log, cfg, httpx.Deps{
		Sessions:     issuer,
		Verifier:     issuer,
		Users:        store,
		Ping:         store.Ping,
		Prom:         prom,
		Gatherer:     reg,
		LoginLimiter: limiter,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "driver", cfg.DBDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
