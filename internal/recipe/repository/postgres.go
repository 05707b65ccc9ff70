package repository

import (
	"context"
	"database/sql"
	"errors"

	"recipe-sharing-platform/backend/internal/recipe/domain"
)

// PostgresRepository persists recipes in the recipes table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a recipe repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const recipeColumns = "id, title, description, ingredients, instructions, cooking_time, user_id, created_at"

// GetByID returns the recipe for id, or nil if not found. It returns an error
// only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE id = $1", id)
	rec, err := scanRecipe(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// List returns recipes ordered by id with skip/limit pagination.
func (r *PostgresRepository) List(ctx context.Context, skip, limit int) ([]*domain.Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+recipeColumns+" FROM recipes ORDER BY id OFFSET $1 LIMIT $2", skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := make([]*domain.Recipe, 0)
	for rows.Next() {
		rec, err := scanRecipe(rows.Scan)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

// Create persists the recipe and sets its database-assigned id and created_at.
func (r *PostgresRepository) Create(ctx context.Context, rec *domain.Recipe) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO recipes (title, description, ingredients, instructions, cooking_time, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		rec.Title, rec.Description, rec.Ingredients, rec.Instructions, rec.CookingTime, rec.UserID,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// Update re-reads the row under a row lock, applies only the patch's present
// fields, and writes the result back, all in one transaction. Returns nil if
// the recipe no longer exists.
func (r *PostgresRepository) Update(ctx context.Context, id int64, p domain.Patch) (*domain.Recipe, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE id = $1 FOR UPDATE", id)
	rec, err := scanRecipe(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	p.Apply(rec)

	_, err = tx.ExecContext(ctx,
		`UPDATE recipes
		 SET title = $2, description = $3, ingredients = $4, instructions = $5, cooking_time = $6
		 WHERE id = $1`,
		rec.ID, rec.Title, rec.Description, rec.Ingredients, rec.Instructions, rec.CookingTime)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the recipe. Returns false if no row was deleted.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanRecipe(scan func(dest ...any) error) (*domain.Recipe, error) {
	var rec domain.Recipe
	err := scan(&rec.ID, &rec.Title, &rec.Description, &rec.Ingredients,
		&rec.Instructions, &rec.CookingTime, &rec.UserID, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
