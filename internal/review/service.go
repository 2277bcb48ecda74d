// Package review orchestrates review intake: classify, persist, report.
package review

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/rotten-potatoes/reviews/internal/domain"
	"github.com/rotten-potatoes/reviews/internal/eventlog"
	"github.com/rotten-potatoes/reviews/internal/model"
)

var (
	// ErrModelUnavailable means no classifier artifact is loaded. The
	// service stays up; only classification-dependent calls fail.
	ErrModelUnavailable = errors.New("review: model unavailable")

	// ErrClassificationFailed means the artifact raised an internal error
	// for this input. Nothing was persisted.
	ErrClassificationFailed = errors.New("review: classification failed")

	// ErrPersistenceFailed means classification succeeded but the write did
	// not. The classification is discarded, never retried.
	ErrPersistenceFailed = errors.New("review: persistence failed")
)

// Classifier is the capability wrapping the loaded artifact's predict
// operation. ok=false signals an internal artifact failure.
type Classifier interface {
	Predict(text string) (label string, ok bool)
}

// Store is the persistence port consumed by the pipeline and aggregator.
// Implementations provide their own concurrency and isolation guarantees.
type Store interface {
	CreateReview(ctx context.Context, movieID int64, text string, isPositive bool) (domain.Review, error)
	ReviewCounts(ctx context.Context, movieID int64) (total, positive int64, err error)
	ListRecentReviews(ctx context.Context, movieID int64, limit int) ([]domain.Review, error)
	ListMovies(ctx context.Context) ([]domain.Movie, error)
}

// Outcome is the result of a successful submission.
type Outcome struct {
	ReviewID     int64
	Sentiment    string
	ModelVersion string
}

// Service is the intake core. The classifier and version tag are resolved
// once at startup and immutable afterwards, so Service is safe for
// concurrent use.
type Service struct {
	store      Store
	classifier Classifier
	version    string
	events     *eventlog.Emitter
}

// NewService wires the pipeline. classifier may be nil when the artifact
// failed to resolve; the service then runs degraded.
func NewService(store Store, classifier Classifier, version string, events *eventlog.Emitter) *Service {
	if version == "" {
		version = model.VersionUnknown
	}
	return &Service{store: store, classifier: classifier, version: version, events: events}
}

// Submit classifies a review, persists it, and reports the terminal state.
// Every failure is terminal for the submission; nothing is retried.
func (s *Service) Submit(ctx context.Context, movieID int64, text string) (Outcome, error) {
	if s.classifier == nil {
		s.events.Emit(zerolog.ErrorLevel, "review rejected: model not loaded", map[string]any{
			"movie_id": movieID,
		})
		return Outcome{}, ErrModelUnavailable
	}

	label, ok := s.classifier.Predict(text)
	if !ok {
		s.events.Emit(zerolog.ErrorLevel, "classification failed", map[string]any{
			"movie_id":      movieID,
			"model_version": s.version,
		})
		return Outcome{}, ErrClassificationFailed
	}

	stored, err := s.store.CreateReview(ctx, movieID, text, model.IsPositive(label))
	if err != nil {
		// The event must show that classification succeeded while storage
		// failed, so observers can tell "classified but never recorded"
		// apart from "never attempted classification".
		s.events.Emit(zerolog.ErrorLevel, "review classified but not stored", map[string]any{
			"movie_id":      movieID,
			"sentiment":     label,
			"model_version": s.version,
			"classified":    true,
			"error":         err.Error(),
		})
		return Outcome{}, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	// Canonical record for downstream sentiment reporting; field names are
	// a stable contract with external consumers.
	s.events.Emit(zerolog.InfoLevel, "review ingested", map[string]any{
		"movie_id":      movieID,
		"review_id":     stored.ID,
		"sentiment":     label,
		"model_version": s.version,
	})

	return Outcome{ReviewID: stored.ID, Sentiment: label, ModelVersion: s.version}, nil
}

// Score derives the freshness score for a movie from the persisted review
// set at query time. Zero reviews is a valid score of 0.0, not an error.
func (s *Service) Score(ctx context.Context, movieID int64) (domain.ScoreSnapshot, error) {
	total, positive, err := s.store.ReviewCounts(ctx, movieID)
	if err != nil {
		return domain.ScoreSnapshot{}, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	snapshot := domain.ScoreSnapshot{TotalReviews: total, PositiveCount: positive}
	if total > 0 {
		snapshot.Score = roundToTwoDecimals(float64(positive) / float64(total) * 100)
	}

	s.events.Emit(zerolog.DebugLevel, "score computed", map[string]any{
		"movie_id":      movieID,
		"total_reviews": total,
		"score":         snapshot.Score,
	})

	return snapshot, nil
}

// RecentReviews returns up to limit reviews for a movie, newest first.
func (s *Service) RecentReviews(ctx context.Context, movieID int64, limit int) ([]domain.Review, error) {
	reviews, err := s.store.ListRecentReviews(ctx, movieID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return reviews, nil
}

// Movies returns the seeded catalog.
func (s *Service) Movies(ctx context.Context) ([]domain.Movie, error) {
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return movies, nil
}

func roundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}
