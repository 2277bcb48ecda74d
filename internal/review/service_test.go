package review

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rotten-potatoes/reviews/internal/domain"
	"github.com/rotten-potatoes/reviews/internal/eventlog"
)

type fakeClassifier struct {
	label string
	ok    bool
}

func (f fakeClassifier) Predict(string) (string, bool) {
	return f.label, f.ok
}

// fakeStore is an in-memory persistence port.
type fakeStore struct {
	mu      sync.Mutex
	nextID  int64
	reviews []domain.Review
	movies  []domain.Movie
	failOn  error
}

func (f *fakeStore) CreateReview(_ context.Context, movieID int64, text string, isPositive bool) (domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != nil {
		return domain.Review{}, f.failOn
	}
	f.nextID++
	review := domain.Review{ID: f.nextID, MovieID: movieID, Text: text, IsPositive: isPositive}
	f.reviews = append(f.reviews, review)
	return review, nil
}

func (f *fakeStore) ReviewCounts(_ context.Context, movieID int64) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != nil {
		return 0, 0, f.failOn
	}
	var total, positive int64
	for _, review := range f.reviews {
		if review.MovieID != movieID {
			continue
		}
		total++
		if review.IsPositive {
			positive++
		}
	}
	return total, positive, nil
}

func (f *fakeStore) ListRecentReviews(_ context.Context, movieID int64, limit int) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Review, 0, limit)
	for i := len(f.reviews) - 1; i >= 0 && len(out) < limit; i-- {
		if f.reviews[i].MovieID == movieID {
			out = append(out, f.reviews[i])
		}
	}
	return out, nil
}

func (f *fakeStore) ListMovies(context.Context) ([]domain.Movie, error) {
	return f.movies, nil
}

// recordingSink captures emitted events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []eventlog.Event
}

func (s *recordingSink) Write(_ context.Context, event eventlog.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) all() []eventlog.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]eventlog.Event(nil), s.events...)
}

func newTestService(store *fakeStore, classifier Classifier) (*Service, *recordingSink) {
	recorder := &recordingSink{}
	events := eventlog.New("intake-test", recorder)
	return NewService(store, classifier, "run-42", events), recorder
}

func TestSubmitSuccess(t *testing.T) {
	store := &fakeStore{}
	svc, recorder := newTestService(store, fakeClassifier{label: "positive", ok: true})

	outcome, err := svc.Submit(context.Background(), 1, "a truly great movie")
	if err != nil {
		t.Fatalf("Submit() unexpected error: %v", err)
	}
	if outcome.Sentiment != "positive" {
		t.Fatalf("Sentiment = %q, want positive", outcome.Sentiment)
	}
	if outcome.ModelVersion != "run-42" {
		t.Fatalf("ModelVersion = %q, want run-42", outcome.ModelVersion)
	}
	if len(store.reviews) != 1 || !store.reviews[0].IsPositive {
		t.Fatalf("stored reviews = %+v, want one positive review", store.reviews)
	}

	events := recorder.all()
	if len(events) != 1 {
		t.Fatalf("emitted %d events, want exactly 1", len(events))
	}
	event := events[0]
	if event.Level != zerolog.InfoLevel {
		t.Fatalf("event level = %v, want info", event.Level)
	}
	for _, key := range []string{"movie_id", "sentiment", "model_version"} {
		if _, ok := event.Fields[key]; !ok {
			t.Fatalf("success event missing stable field %q: %+v", key, event.Fields)
		}
	}
	if event.Fields["sentiment"] != "positive" {
		t.Fatalf("sentiment field = %v, want positive", event.Fields["sentiment"])
	}
}

func TestSubmitModelUnavailable(t *testing.T) {
	store := &fakeStore{}
	svc, recorder := newTestService(store, nil)

	_, err := svc.Submit(context.Background(), 1, "whatever text")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("Submit() error = %v, want ErrModelUnavailable", err)
	}
	if len(store.reviews) != 0 {
		t.Fatal("persistence port was touched despite missing classifier")
	}

	events := recorder.all()
	if len(events) != 1 || events[0].Level != zerolog.ErrorLevel {
		t.Fatalf("events = %+v, want one error event", events)
	}
}

func TestSubmitClassificationFailed(t *testing.T) {
	store := &fakeStore{}
	svc, recorder := newTestService(store, fakeClassifier{ok: false})

	_, err := svc.Submit(context.Background(), 1, "some text")
	if !errors.Is(err, ErrClassificationFailed) {
		t.Fatalf("Submit() error = %v, want ErrClassificationFailed", err)
	}
	if len(store.reviews) != 0 {
		t.Fatal("review was persisted despite failed classification")
	}
	if events := recorder.all(); len(events) != 1 {
		t.Fatalf("emitted %d events, want exactly 1", len(events))
	}
}

func TestSubmitPersistenceFailedRecordsClassification(t *testing.T) {
	store := &fakeStore{failOn: fmt.Errorf("connection reset")}
	svc, recorder := newTestService(store, fakeClassifier{label: "positive", ok: true})

	_, err := svc.Submit(context.Background(), 1, "great but doomed")
	if !errors.Is(err, ErrPersistenceFailed) {
		t.Fatalf("Submit() error = %v, want ErrPersistenceFailed", err)
	}

	events := recorder.all()
	if len(events) != 1 {
		t.Fatalf("emitted %d events, want exactly 1 (no silent success)", len(events))
	}
	event := events[0]
	if event.Level != zerolog.ErrorLevel {
		t.Fatalf("event level = %v, want error", event.Level)
	}
	// Observers must be able to tell "classified but never recorded" apart
	// from "never attempted classification".
	if event.Fields["sentiment"] != "positive" {
		t.Fatalf("failure event sentiment = %v, want the successful classification", event.Fields["sentiment"])
	}
	if event.Fields["classified"] != true {
		t.Fatalf("failure event classified = %v, want true", event.Fields["classified"])
	}
	if _, ok := event.Fields["error"]; !ok {
		t.Fatal("failure event does not record the storage error")
	}
}

func TestSubmitNonPositiveLabelsAreNegative(t *testing.T) {
	for _, label := range []string{"negative", "neutral", "Positive-ish", ""} {
		store := &fakeStore{}
		svc, _ := newTestService(store, fakeClassifier{label: label, ok: true})
		if _, err := svc.Submit(context.Background(), 1, "text"); err != nil {
			t.Fatalf("Submit() with label %q: %v", label, err)
		}
		if store.reviews[0].IsPositive {
			t.Fatalf("label %q stored as positive", label)
		}
	}
}

func TestScoreZeroReviews(t *testing.T) {
	svc, _ := newTestService(&fakeStore{}, nil)

	snapshot, err := svc.Score(context.Background(), 9)
	if err != nil {
		t.Fatalf("Score() unexpected error: %v", err)
	}
	want := domain.ScoreSnapshot{TotalReviews: 0, PositiveCount: 0, Score: 0.0}
	if snapshot != want {
		t.Fatalf("Score() = %+v, want %+v", snapshot, want)
	}
}

func TestScoreRounding(t *testing.T) {
	store := &fakeStore{}
	store.reviews = []domain.Review{
		{ID: 1, MovieID: 1, IsPositive: true},
		{ID: 2, MovieID: 1, IsPositive: true},
		{ID: 3, MovieID: 1, IsPositive: false},
	}
	svc, _ := newTestService(store, nil)

	snapshot, err := svc.Score(context.Background(), 1)
	if err != nil {
		t.Fatalf("Score() unexpected error: %v", err)
	}
	if snapshot.Score != 66.67 {
		t.Fatalf("Score = %v, want 66.67", snapshot.Score)
	}
	if snapshot.TotalReviews != 3 || snapshot.PositiveCount != 2 {
		t.Fatalf("counts = %d/%d, want 3/2", snapshot.TotalReviews, snapshot.PositiveCount)
	}
}

func TestScoreAfterSuccessfulSubmit(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newTestService(store, fakeClassifier{label: "positive", ok: true})

	before, err := svc.Score(context.Background(), 1)
	if err != nil {
		t.Fatalf("Score() before: %v", err)
	}
	if _, err := svc.Submit(context.Background(), 1, "really loved this one"); err != nil {
		t.Fatalf("Submit(): %v", err)
	}
	after, err := svc.Score(context.Background(), 1)
	if err != nil {
		t.Fatalf("Score() after: %v", err)
	}

	if after.TotalReviews != before.TotalReviews+1 {
		t.Fatalf("total went %d -> %d, want +1", before.TotalReviews, after.TotalReviews)
	}
	if after.PositiveCount != before.PositiveCount+1 {
		t.Fatalf("positive went %d -> %d, want +1", before.PositiveCount, after.PositiveCount)
	}
}

func TestRecentReviewsNewestFirst(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newTestService(store, fakeClassifier{label: "positive", ok: true})
	for i := 0; i < 4; i++ {
		if _, err := svc.Submit(context.Background(), 1, fmt.Sprintf("review number %d is great", i)); err != nil {
			t.Fatalf("Submit(): %v", err)
		}
	}

	reviews, err := svc.RecentReviews(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("RecentReviews(): %v", err)
	}
	if len(reviews) != 3 {
		t.Fatalf("got %d reviews, want at most 3", len(reviews))
	}
	for i := 1; i < len(reviews); i++ {
		if reviews[i-1].ID <= reviews[i].ID {
			t.Fatalf("reviews not newest first: %+v", reviews)
		}
	}
}
