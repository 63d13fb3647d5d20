package handler

import (
	"net/http"

	"github.com/actuallystonmai/catalog-recommender/internal/logging"
)

// GET /health
// The store is required. A cache outage only degrades the service.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	log := logging.Ctx(r.Context())
	if err := h.service.Ping(r.Context()); err != nil {
		log.Warn().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	if err := h.service.PingCache(r.Context()); err != nil {
		log.Warn().Err(err).Msg("cache unavailable, serving uncached")
		writeJSON(w, http.StatusOK, map[string]string{"status": "degraded", "cache": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
