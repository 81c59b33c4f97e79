package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/podcast-registry/internal/domain"
	"github.com/Clark-Hu/podcast-registry/internal/metrics"
)

const (
	maxRequestBody = 1 << 20 // 1 MiB
	callerHeader   = "X-Caller-Id"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type podcastRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	FeedURL     *string `json:"feedUrl"`
}

type podcastResponse struct {
	ID          domain.PodcastID `json:"id"`
	Owner       string           `json:"owner"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	FeedURL     string           `json:"feedUrl"`
}

type registerResponse struct {
	ID domain.PodcastID `json:"id"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type ratingRequest struct {
	Rating *int `json:"rating"`
}

type userRatingResponse struct {
	Rating int `json:"rating"`
}

type ratingAggregateResponse struct {
	AverageRating float64 `json:"averageRating"`
	NumRatings    int64   `json:"numRatings"`
}

func (s *Server) handleRegisterPodcast(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}

	fields, ok := s.decodePodcastFields(w, r)
	if !ok {
		return
	}

	id, err := s.repo.Podcasts.Register(r.Context(), caller, fields)
	if err != nil {
		s.respondOperationError(w, "register podcast", err)
		return
	}
	s.metrics.PodcastsRegistered.Inc()

	w.Header().Set("Location", fmt.Sprintf("/podcasts/%s", id))
	s.respondJSON(w, http.StatusCreated, registerResponse{ID: id})
}

func (s *Server) handleGetPodcast(w http.ResponseWriter, r *http.Request) {
	id, ok := s.podcastIDParam(w, r)
	if !ok {
		return
	}

	podcast, err := s.repo.Podcasts.Get(r.Context(), id)
	if err != nil {
		s.respondOperationError(w, "get podcast", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toPodcastResponse(podcast))
}

func (s *Server) handleUpdatePodcast(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := s.podcastIDParam(w, r)
	if !ok {
		return
	}
	fields, ok := s.decodePodcastFields(w, r)
	if !ok {
		return
	}

	err := s.repo.Podcasts.Update(r.Context(), caller, id, fields)
	s.metrics.PodcastUpdates.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		s.respondOperationError(w, "update podcast", err)
		return
	}
	s.respondJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleRatePodcast(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := s.podcastIDParam(w, r)
	if !ok {
		return
	}

	var req ratingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Rating == nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "rating is required")
		return
	}

	err := s.repo.Ratings.Rate(r.Context(), caller, id, *req.Rating)
	s.metrics.Ratings.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		s.respondOperationError(w, "rate podcast", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, successResponse{Success: true})
}

func (s *Server) handleGetAggregate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.podcastIDParam(w, r)
	if !ok {
		return
	}

	agg, err := s.repo.Ratings.Aggregate(r.Context(), id)
	if err != nil {
		s.respondOperationError(w, "aggregate ratings", err)
		return
	}
	s.respondJSON(w, http.StatusOK, ratingAggregateResponse{
		AverageRating: agg.AverageRating,
		NumRatings:    agg.NumRatings,
	})
}

func (s *Server) handleGetUserRating(w http.ResponseWriter, r *http.Request) {
	id, ok := s.podcastIDParam(w, r)
	if !ok {
		return
	}
	// chi matches against RawPath when it is set, leaving the segment escaped.
	decoded, err := url.PathUnescape(chi.URLParam(r, "user"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid user parameter")
		return
	}
	user := strings.TrimSpace(decoded)
	if user == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing user parameter")
		return
	}

	rating, err := s.repo.Ratings.UserRating(r.Context(), user, id)
	if err != nil {
		s.respondOperationError(w, "get user rating", err)
		return
	}
	s.respondJSON(w, http.StatusOK, userRatingResponse{Rating: rating})
}

func (s *Server) requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := strings.TrimSpace(r.Header.Get(callerHeader))
	if caller == "" {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing caller identity")
		return "", false
	}
	return caller, true
}

func (s *Server) podcastIDParam(w http.ResponseWriter, r *http.Request) (domain.PodcastID, bool) {
	id, err := domain.ParsePodcastID(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return 0, false
	}
	return id, true
}

func (s *Server) decodePodcastFields(w http.ResponseWriter, r *http.Request) (domain.PodcastFields, bool) {
	var req podcastRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return domain.PodcastFields{}, false
	}
	if req.Name == nil || req.Description == nil || req.FeedURL == nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name, description and feedUrl are required")
		return domain.PodcastFields{}, false
	}
	return domain.PodcastFields{
		Name:        *req.Name,
		Description: *req.Description,
		FeedURL:     *req.FeedURL,
	}, true
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// respondOperationError maps domain rejections to their status codes. Anything
// else is an infrastructure failure and is logged.
func (s *Server) respondOperationError(w http.ResponseWriter, op string, err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		s.respondError(w, statusForError(domainErr), domainErr.Code(), domainErr.Error())
		return
	}
	s.logger.Printf("%s error: %v", op, err)
	s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+op)
}

func statusForError(err *domain.Error) int {
	switch err {
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrOwnerOnly:
		return http.StatusForbidden
	case domain.ErrInvalidRating:
		return http.StatusUnprocessableEntity
	case domain.ErrAlreadyVoted:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.As(err, &maxBytesError):
		s.respondError(w, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR", "Request body too large")
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

func toPodcastResponse(p domain.Podcast) podcastResponse {
	return podcastResponse{
		ID:          p.ID,
		Owner:       p.Owner,
		Name:        p.Name,
		Description: p.Description,
		FeedURL:     p.FeedURL,
	}
}
