package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"recipe-sharing-platform/backend/internal/rating/domain"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// PostgresRepository persists ratings in the ratings table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a rating repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const ratingColumns = "id, rating, comment, user_id, recipe_id, created_at"

// GetByID returns the rating for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.Rating, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+ratingColumns+" FROM ratings WHERE id = $1", id)
	rating, err := scanRating(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rating, nil
}

// GetByUserAndRecipe returns the caller's rating for the recipe, or nil.
func (r *PostgresRepository) GetByUserAndRecipe(ctx context.Context, userID, recipeID int64) (*domain.Rating, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+ratingColumns+" FROM ratings WHERE user_id = $1 AND recipe_id = $2", userID, recipeID)
	rating, err := scanRating(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rating, nil
}

// ListByRecipe returns the recipe's ratings ordered by id with skip/limit
// pagination.
func (r *PostgresRepository) ListByRecipe(ctx context.Context, recipeID int64, skip, limit int) ([]*domain.Rating, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+ratingColumns+" FROM ratings WHERE recipe_id = $1 ORDER BY id OFFSET $2 LIMIT $3",
		recipeID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]*domain.Rating, 0)
	for rows.Next() {
		rating, err := scanRating(rows.Scan)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// Create persists the rating. The UNIQUE (user_id, recipe_id) constraint
// backstops the service's pre-insert duplicate check, closing the race where
// two creates for the same pair pass the check concurrently.
func (r *PostgresRepository) Create(ctx context.Context, rating *domain.Rating) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO ratings (rating, comment, user_id, recipe_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		rating.Rating, rating.Comment, rating.UserID, rating.RecipeID,
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Update re-reads the row under a row lock, applies the patch's present
// fields, and writes the result back in one transaction. Returns nil if the
// rating no longer exists.
func (r *PostgresRepository) Update(ctx context.Context, id int64, p domain.Patch) (*domain.Rating, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		"SELECT "+ratingColumns+" FROM ratings WHERE id = $1 FOR UPDATE", id)
	rating, err := scanRating(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	p.Apply(rating)

	_, err = tx.ExecContext(ctx,
		"UPDATE ratings SET rating = $2, comment = $3 WHERE id = $1",
		rating.ID, rating.Rating, rating.Comment)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rating, nil
}

// Delete removes the rating. Returns false if no row was deleted.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM ratings WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanRating(scan func(dest ...any) error) (*domain.Rating, error) {
	var rating domain.Rating
	err := scan(&rating.ID, &rating.Rating, &rating.Comment, &rating.UserID,
		&rating.RecipeID, &rating.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rating, nil
}
