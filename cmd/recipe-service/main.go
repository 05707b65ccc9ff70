// The recipe service owns recipes. Reads are public; mutations require a
// verified identity (local signature check with remote fallback by default)
// and ownership of the recipe.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"recipe-sharing-platform/backend/internal/authn"
	"recipe-sharing-platform/backend/internal/authz"
	"recipe-sharing-platform/backend/internal/config"
	"recipe-sharing-platform/backend/internal/db"
	healthhandler "recipe-sharing-platform/backend/internal/health/handler"
	recipehandler "recipe-sharing-platform/backend/internal/recipe/handler"
	reciperepo "recipe-sharing-platform/backend/internal/recipe/repository"
	recipeservice "recipe-sharing-platform/backend/internal/recipe/service"
	"recipe-sharing-platform/backend/internal/security"
	"recipe-sharing-platform/backend/internal/server"
	"recipe-sharing-platform/backend/internal/server/middleware"
	otelsetup "recipe-sharing-platform/backend/internal/telemetry/otel"
)

const serviceName = "recipe-service"

func main() {
	ctx := context.Background()

	cfg, err := config.Load("8002", authn.StrategyLocalFallback)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	defer func() { _ = providers.Shutdown(context.Background()) }()
	providers.SetGlobal()

	logger := slog.New(otelsetup.NewSlogHandler(
		providers.LoggerProvider, serviceName, slog.NewJSONHandler(os.Stdout, nil)))
	slog.SetDefault(logger)

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	var tokens *security.TokenProvider
	if cfg.JWTSecret != "" {
		tokens, err = security.NewTokenProvider(
			[]byte(cfg.JWTSecret), cfg.JWTAlgorithm, cfg.JWTIssuer, cfg.AccessTTL())
		if err != nil {
			log.Fatalf("tokens: %v", err)
		}
	}
	verifier, err := authn.New(cfg.AuthStrategy, authn.Options{
		Tokens:         tokens,
		UserServiceURL: cfg.UserServiceURL,
		VerifyTimeout:  cfg.VerifyTimeout(),
		ProbeTimeout:   cfg.ProbeTimeout(),
	})
	if err != nil {
		log.Fatalf("authn: %v", err)
	}

	gate, err := authz.NewGate(ctx)
	if err != nil {
		log.Fatalf("authz: %v", err)
	}

	recipes := recipeservice.New(reciperepo.NewPostgresRepository(pool), gate)

	health := healthhandler.New(serviceName, pool, gate)
	r := server.NewRouter(serviceName, logger, health)
	recipehandler.New(recipes).Mount(r, middleware.RequireAuth(verifier))

	if err := server.Run(cfg.Addr(), r); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
