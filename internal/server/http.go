// Package server assembles the shared HTTP router and runs a service process
// until shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	healthhandler "recipe-sharing-platform/backend/internal/health/handler"
	"recipe-sharing-platform/backend/internal/server/middleware"
)

// NewRouter returns a chi router with the shared middleware chain and the
// liveness/readiness probes mounted. Service routes are added by the caller.
func NewRouter(serviceName string, logger *slog.Logger, health *healthhandler.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Get("/", health.Liveness)
	r.Get("/healthz", health.Readiness)

	return r
}

// Run serves h on addr until SIGINT or SIGTERM, then shuts down gracefully
// with a 10s drain deadline.
func Run(addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	slog.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	slog.Info("http server stopped")
	return nil
}
