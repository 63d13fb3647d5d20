package handler

import (
	"net/http"
	"strings"
)

// PUT /api/users/{userID}/ratings/{kind}/{itemID}
func (h *Handler) RateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := requireSubject(r, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	kind, err := kindParam(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req RateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	outcome, err := h.service.RateItem(r.Context(), kind, userID, itemID, req.Rating)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RatingResponse{Outcome: outcome, Message: outcome.Message()})
}

// POST /api/first-access
func (h *Handler) FirstAccess(w http.ResponseWriter, r *http.Request) {
	var req FirstAccessRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := requireSubject(r, req.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	u, err := h.service.FirstAccess(r.Context(), req.UserID, strings.Join(req.Genres, ", "), req.Movies, req.Series)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}
