package handler

import (
	"net/http"
	"time"

	"github.com/actuallystonmai/catalog-recommender/internal/domain"
)

// GET /api/users/{userID}/recommendations/{kind}
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	kind, err := kindParam(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := h.service.Recommend(r.Context(), kind, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := RecommendationResponse{
		UserID:          userID,
		Kind:            kind,
		Recommendations: result.Recommendations,
		Metadata: domain.RecommendationMeta{
			CacheHit:    result.CacheHit,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  result.Recommendations.TotalCount(),
		},
	}

	writeJSON(w, http.StatusOK, resp)
}

// ByGenres serves POST /api/movies and POST /api/series.
func (h *Handler) ByGenres(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GenreRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		recs, err := h.service.RecommendByGenres(r.Context(), kind, req.Genre, req.UserID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, recs)
	}
}

// POST /api/nlp-recommendations
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	var req SimilarRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	kind, err := domain.ParseKind(req.ItemType)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items, err := h.service.Similar(r.Context(), kind, req.ItemID, req.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}
	writeJSON(w, http.StatusOK, SimilarResponse{ItemID: req.ItemID, Kind: kind, Recommendations: items})
}
