// The user service owns identities: it registers users, issues access
// tokens, and answers /users/me as the authoritative token check for its
// peers.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"recipe-sharing-platform/backend/internal/authn"
	"recipe-sharing-platform/backend/internal/config"
	"recipe-sharing-platform/backend/internal/db"
	healthhandler "recipe-sharing-platform/backend/internal/health/handler"
	"recipe-sharing-platform/backend/internal/security"
	"recipe-sharing-platform/backend/internal/server"
	otelsetup "recipe-sharing-platform/backend/internal/telemetry/otel"
	userhandler "recipe-sharing-platform/backend/internal/user/handler"
	userrepo "recipe-sharing-platform/backend/internal/user/repository"
	userservice "recipe-sharing-platform/backend/internal/user/service"
)

const serviceName = "user-service"

func main() {
	ctx := context.Background()

	cfg, err := config.Load("8001", authn.StrategyLocal)
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

	tokens, err := security.NewTokenProvider(
		[]byte(cfg.JWTSecret), cfg.JWTAlgorithm, cfg.JWTIssuer, cfg.AccessTTL())
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	auth := userservice.NewAuthService(
		userrepo.NewPostgresRepository(pool),
		security.NewHasher(cfg.BcryptCost),
		tokens,
	)

	health := healthhandler.New(serviceName, pool, nil)
	r := server.NewRouter(serviceName, logger, health)
	userhandler.New(auth).Mount(r)

	if err := server.Run(cfg.Addr(), r); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
