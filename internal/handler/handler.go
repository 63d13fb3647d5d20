package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/actuallystonmai/catalog-recommender/internal/auth"
	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/actuallystonmai/catalog-recommender/internal/logging"
	"github.com/actuallystonmai/catalog-recommender/internal/service"
	"github.com/actuallystonmai/catalog-recommender/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

// Service is the subset of *service.Service the handlers call.
type Service interface {
	Recommend(ctx context.Context, kind domain.Kind, userID int64) (*domain.RecommendationResult, error)
	RecommendByGenres(ctx context.Context, kind domain.Kind, genres []string, userID int64) (domain.GenreRecommendations, error)
	Similar(ctx context.Context, kind domain.Kind, itemID, userID int64) ([]domain.CatalogItem, error)
	RateItem(ctx context.Context, kind domain.Kind, userID, itemID int64, label string) (domain.RatingOutcome, error)
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	FirstAccess(ctx context.Context, userID int64, genres string, movieIDs, serieIDs []int64) (*domain.User, error)
	GetBatchRecommendations(ctx context.Context, kind domain.Kind, page, limit int) (*domain.BatchResponse, error)
	Ping(ctx context.Context) error
	PingCache(ctx context.Context) error
}

type Handler struct {
	service Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{service: svc}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Msg("encode response")
	}
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// Unauthorized is the response for a missing or invalid bearer token.
func Unauthorized(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusUnauthorized, "unauthorized", "A valid bearer token is required")
}

// decodeBody reads a JSON body into dst and validates it.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("body", "malformed JSON: %v", err)
	}
	return validation.Struct(dst)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

// requireSubject rejects requests whose token belongs to another user.
func requireSubject(r *http.Request, userID int64) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || claims.UserID != userID {
		return domain.ErrForbidden
	}
	return nil
}

// writeServiceError maps domain errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "invalid_parameter", verr.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "Token does not grant access to this user")
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", "User does not exist")
	case errors.Is(err, domain.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item_not_found", "Item does not exist")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", "Username or email already registered")
	case domain.IsComputationError(err):
		logging.Ctx(r.Context()).Error().Err(err).Msg("recommendation computation failed")
		writeError(w, http.StatusServiceUnavailable, "computation_unavailable",
			"Recommendations are temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request_timeout",
			"Request timed out, please try again")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("unhandled error")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

func kindParam(r *http.Request) (domain.Kind, error) {
	return domain.ParseKind(chi.URLParam(r, "kind"))
}
