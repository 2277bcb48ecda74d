package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotten-potatoes/reviews/internal/domain"
)

// ReviewsRepository provides persistence helpers for review entities.
type ReviewsRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a review row and returns the stored entity. The sentiment
// flag is final at insert time; reviews are never updated or deleted.
func (r *ReviewsRepository) Create(ctx context.Context, movieID int64, text string, isPositive bool) (domain.Review, error) {
	const query = `
        INSERT INTO reviews (movie_id, review, is_positive)
        VALUES ($1,$2,$3)
        RETURNING id, movie_id, review, is_positive, created_at
    `

	var review domain.Review
	err := r.pool.QueryRow(ctx, query, movieID, text, isPositive).Scan(
		&review.ID,
		&review.MovieID,
		&review.Text,
		&review.IsPositive,
		&review.CreatedAt,
	)
	if err != nil {
		return domain.Review{}, fmt.Errorf("insert review: %w", err)
	}
	return review, nil
}

// Counts returns the total and positive review counts for a movie in a
// single query so the two numbers come from the same snapshot.
func (r *ReviewsRepository) Counts(ctx context.Context, movieID int64) (total, positive int64, err error) {
	const query = `
        SELECT COUNT(*)::int8,
               COUNT(*) FILTER (WHERE is_positive)::int8
        FROM reviews
        WHERE movie_id = $1
    `

	if err := r.pool.QueryRow(ctx, query, movieID).Scan(&total, &positive); err != nil {
		return 0, 0, fmt.Errorf("count reviews: %w", err)
	}
	return total, positive, nil
}

// ListRecent returns up to limit reviews for a movie, newest first by
// assignment order.
func (r *ReviewsRepository) ListRecent(ctx context.Context, movieID int64, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 5
	}

	const query = `
        SELECT id, movie_id, review, is_positive, created_at
        FROM reviews
        WHERE movie_id = $1
        ORDER BY id DESC
        LIMIT $2
    `

	rows, err := r.pool.Query(ctx, query, movieID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0, limit)
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(&review.ID, &review.MovieID, &review.Text, &review.IsPositive, &review.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
