package httpapi

import "net/http"

// HandleHealth returns API health status and corpus stats
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	stats := h.index.Stats()
	resp := HealthResponse{
		Status: "healthy",
		Corpus: stats,
	}

	h.logger.Debug().Int("entries", stats.Entries).Str("state", stats.State).Msg("health check")

	writeJSON(w, http.StatusOK, resp)
}
