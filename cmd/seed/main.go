// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (chef@example.com) already exists.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"recipe-sharing-platform/backend/internal/config"
	"recipe-sharing-platform/backend/internal/db"
	"recipe-sharing-platform/backend/internal/security"
)

const (
	devUsername = "chef"
	devEmail    = "chef@example.com"
	devPassword = "password123"
)

func main() {
	cfg, err := config.Load("0", "local")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var existing int64
	err = conn.QueryRowContext(ctx,
		"SELECT id FROM users WHERE email = $1", devEmail).Scan(&existing)
	if err == nil {
		log.Printf("seed: dev user %s already exists (id=%d), nothing to do", devEmail, existing)
		return
	}
	if err != sql.ErrNoRows {
		log.Fatalf("seed: %v", err)
	}

	hash, err := security.NewHasher(cfg.BcryptCost).Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("seed: hash password: %v", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	var userID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, is_active)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING id`,
		devUsername, devEmail, hash).Scan(&userID)
	if err != nil {
		log.Fatalf("seed: insert user: %v", err)
	}

	var recipeID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO recipes (title, description, ingredients, instructions, cooking_time, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		"Tomato Soup",
		"A simple tomato soup for testing.",
		"tomatoes, onion, garlic, stock, salt",
		"Soften the onion and garlic, add tomatoes and stock, simmer, then blend.",
		30, userID).Scan(&recipeID)
	if err != nil {
		log.Fatalf("seed: insert recipe: %v", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ratings (rating, comment, user_id, recipe_id)
		 VALUES ($1, $2, $3, $4)`,
		5, "Exactly as advertised.", userID, recipeID)
	if err != nil {
		log.Fatalf("seed: insert rating: %v", err)
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seed: created user %s (id=%d) with recipe %d and one rating", devEmail, userID, recipeID)
}
