package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotten-potatoes/reviews/internal/domain"
	"github.com/rotten-potatoes/reviews/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Movies  *MoviesRepository
	Reviews *ReviewsRepository

	pool *pgxpool.Pool
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies:  &MoviesRepository{pool: pool},
		Reviews: &ReviewsRepository{pool: pool},
		pool:    pool,
	}
}

// CreateReview persists a classified review. Part of the persistence port
// consumed by the ingestion pipeline.
func (r *Repository) CreateReview(ctx context.Context, movieID int64, text string, isPositive bool) (domain.Review, error) {
	return r.Reviews.Create(ctx, movieID, text, isPositive)
}

// ReviewCounts returns the total and positive review counts for a movie.
func (r *Repository) ReviewCounts(ctx context.Context, movieID int64) (total, positive int64, err error) {
	return r.Reviews.Counts(ctx, movieID)
}

// ListRecentReviews returns up to limit reviews for a movie, newest first.
func (r *Repository) ListRecentReviews(ctx context.Context, movieID int64, limit int) ([]domain.Review, error) {
	return r.Reviews.ListRecent(ctx, movieID, limit)
}

// ListMovies returns the seeded movie catalog ordered by name.
func (r *Repository) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	return r.Movies.List(ctx)
}
