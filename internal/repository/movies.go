package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotten-potatoes/reviews/internal/domain"
)

// MoviesRepository provides persistence helpers for the movie catalog.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

// List returns all movies ordered by name. The catalog is small and seeded
// once, so no pagination is offered.
func (r *MoviesRepository) List(ctx context.Context) ([]domain.Movie, error) {
	const query = `SELECT id, name, description FROM movies ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)
	for rows.Next() {
		var movie domain.Movie
		if err := rows.Scan(&movie.ID, &movie.Name, &movie.Description); err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id int64) (domain.Movie, error) {
	const query = `SELECT id, name, description FROM movies WHERE id = $1`

	var movie domain.Movie
	err := r.pool.QueryRow(ctx, query, id).Scan(&movie.ID, &movie.Name, &movie.Description)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}
