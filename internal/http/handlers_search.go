package httpapi

import (
	"net/http"
	"strconv"

	"github.com/guiafaen/guia/internal/libs/metrics"
	"github.com/guiafaen/guia/internal/scope/search"
)

// HandleSearch matches the q parameter against the corpus. Matching strings
// come back split into highlight segments. An empty query is not an error
// and yields no results.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", "INVALID_LIMIT")
			return
		}
		limit = n
	}

	found := h.index.Search(query)
	metrics.ObserveSearch(query, len(found))
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}

	results := make([]SearchResult, len(found))
	for i, res := range found {
		results[i] = toSearchResult(res, query)
	}

	h.logger.Info().
		Str("query", query).
		Int("results", len(results)).
		Int("limit", limit).
		Msg("search completed")

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	})
}

func toSearchResult(res search.Result, query string) SearchResult {
	matches := make([]Match, len(res.Content))
	for i, text := range res.Content {
		m := Match{Text: text, Segments: search.Highlight(text, query)}
		if i < len(res.Keys) {
			m.Key = res.Keys[i]
		}
		matches[i] = m
	}
	return SearchResult{Title: res.Title, Screen: res.Screen, Matches: matches}
}

// HandleReload rebuilds the corpus and returns its stats
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	stats := h.index.Load(r.Context())
	writeJSON(w, http.StatusOK, stats)
}
