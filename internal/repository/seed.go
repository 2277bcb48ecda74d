package repository

import (
	"context"
	"errors"
	"fmt"
)

// ErrSeedingFailed indicates the bootstrap dataset could not be applied.
// The caller logs it and continues with an empty store; it never crashes
// the process.
var ErrSeedingFailed = errors.New("repository: seeding failed")

// MovieSeed is one catalog entry in the bootstrap dataset, with its
// pre-classified reviews.
type MovieSeed struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Reviews     []ReviewSeed `json:"reviews"`
}

// ReviewSeed is a pre-classified review shipped with the seed dataset.
type ReviewSeed struct {
	Text       string `json:"text"`
	IsPositive bool   `json:"is_positive"`
}

// SeedIfEmpty populates the store from the bootstrap dataset inside a single
// transaction. It is a no-op when any movie already exists, which makes
// process restarts idempotent.
func (r *Repository) SeedIfEmpty(ctx context.Context, movies []MovieSeed) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrSeedingFailed, err)
	}
	defer tx.Rollback(ctx)

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM movies`).Scan(&count); err != nil {
		return fmt.Errorf("%w: count movies: %v", ErrSeedingFailed, err)
	}
	if count > 0 {
		return nil
	}

	for _, movie := range movies {
		if movie.Name == "" {
			return fmt.Errorf("%w: movie with empty name", ErrSeedingFailed)
		}

		var movieID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO movies (name, description) VALUES ($1,$2) RETURNING id`,
			movie.Name, movie.Description,
		).Scan(&movieID)
		if err != nil {
			return fmt.Errorf("%w: insert movie %q: %v", ErrSeedingFailed, movie.Name, err)
		}

		for _, review := range movie.Reviews {
			_, err := tx.Exec(ctx,
				`INSERT INTO reviews (movie_id, review, is_positive) VALUES ($1,$2,$3)`,
				movieID, review.Text, review.IsPositive,
			)
			if err != nil {
				return fmt.Errorf("%w: insert review for %q: %v", ErrSeedingFailed, movie.Name, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrSeedingFailed, err)
	}
	return nil
}
