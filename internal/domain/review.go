package domain

import "time"

// Review is a single classified movie review. Reviews are append-only: the
// sentiment flag is fixed at submission time and never recomputed.
type Review struct {
	ID         int64
	MovieID    int64
	Text       string
	IsPositive bool
	CreatedAt  time.Time
}

// ScoreSnapshot is the freshness score for a movie, derived from the
// persisted review set at query time. Score is a percentage in [0, 100]
// rounded to two decimal places; zero reviews yields 0.0.
type ScoreSnapshot struct {
	TotalReviews  int64
	PositiveCount int64
	Score         float64
}
