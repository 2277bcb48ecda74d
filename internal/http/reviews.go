package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rotten-potatoes/reviews/internal/domain"
	"github.com/rotten-potatoes/reviews/internal/review"
)

const maxRequestBody = 1 << 20 // 1 MiB

// minReviewWords rejects reviews too short to carry any sentiment signal.
const minReviewWords = 5

// recentReviewsLimit is how many reviews the UI shows per movie.
const recentReviewsLimit = 5

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type submitReviewRequest struct {
	MovieID int64  `json:"movie_id"`
	Text    string `json:"text"`
}

type submitReviewResponse struct {
	Sentiment    string `json:"sentiment"`
	ModelVersion string `json:"model_version"`
}

type movieResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type reviewResponse struct {
	ID         int64  `json:"id"`
	Review     string `json:"review"`
	IsPositive bool   `json:"isPos"`
}

type scoreResponse struct {
	TotalReviews  int64   `json:"total_reviews"`
	PositiveCount int64   `json:"positive_count"`
	Score         float64 `json:"score"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON payload")
		return
	}

	if req.MovieID <= 0 {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "movie_id must be a positive integer")
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "text must not be empty")
		return
	}
	if len(strings.Fields(text)) < minReviewWords {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST",
			fmt.Sprintf("review must have at least %d words", minReviewWords))
		return
	}

	outcome, err := s.reviews.Submit(r.Context(), req.MovieID, text)
	if err != nil {
		s.respondSubmitError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, submitReviewResponse{
		Sentiment:    outcome.Sentiment,
		ModelVersion: outcome.ModelVersion,
	})
}

func (s *Server) respondSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, review.ErrModelUnavailable):
		s.respondError(w, http.StatusServiceUnavailable, "MODEL_UNAVAILABLE", "Classifier model is not loaded")
	case errors.Is(err, review.ErrClassificationFailed):
		s.respondError(w, http.StatusBadGateway, "CLASSIFICATION_FAILED", "Classifier could not score this review")
	case errors.Is(err, review.ErrPersistenceFailed):
		s.respondError(w, http.StatusInternalServerError, "PERSISTENCE_FAILED", "Review was classified but could not be stored")
	default:
		s.logger.Error().Err(err).Msg("submit review error")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit review")
	}
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.reviews.Movies(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list movies error")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list movies")
		return
	}

	items := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		items = append(items, movieResponse{ID: movie.ID, Name: movie.Name, Description: movie.Description})
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	movieID, err := movieIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	reviews, err := s.reviews.RecentReviews(r.Context(), movieID, recentReviewsLimit)
	if err != nil {
		s.logger.Error().Err(err).Int64("movie_id", movieID).Msg("list reviews error")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list reviews")
		return
	}

	items := make([]reviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		items = append(items, toReviewResponse(rv))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	movieID, err := movieIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	snapshot, err := s.reviews.Score(r.Context(), movieID)
	if err != nil {
		s.logger.Error().Err(err).Int64("movie_id", movieID).Msg("score error")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute score")
		return
	}

	s.respondJSON(w, http.StatusOK, scoreResponse{
		TotalReviews:  snapshot.TotalReviews,
		PositiveCount: snapshot.PositiveCount,
		Score:         snapshot.Score,
	})
}

func movieIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "movieID")
	movieID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || movieID <= 0 {
		return 0, fmt.Errorf("invalid movie id %q", raw)
	}
	return movieID, nil
}

func toReviewResponse(rv domain.Review) reviewResponse {
	return reviewResponse{ID: rv.ID, Review: rv.Text, IsPositive: rv.IsPositive}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("body must contain a single JSON object")
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{Code: code, Message: message})
}
