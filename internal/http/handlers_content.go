package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/guiafaen/guia/internal/scope/auth"
	"github.com/guiafaen/guia/internal/scope/search"
)

const maxContentBody = 1 << 20

// HandleTables lists the editable tables and the screens of the searched ones
func (h *Handler) HandleTables(w http.ResponseWriter, _ *http.Request) {
	screens := make(map[string]string, len(h.tables))
	for _, t := range h.tables {
		screens[t.Name] = t.Screen
	}

	names := h.content.Tables().Names()
	out := make([]TableInfo, 0, len(names))
	for _, name := range names {
		screen, searched := screens[name]
		out = append(out, TableInfo{
			Table:    name,
			Title:    search.TitleFor(name),
			Screen:   screen,
			Searched: searched,
		})
	}

	writeJSON(w, http.StatusOK, TablesResponse{Tables: out})
}

// HandleListContent returns every row of a table
func (h *Handler) HandleListContent(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	rows, err := h.content.ListContent(r.Context(), table)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	out := make([]ContentRow, len(rows))
	for i, row := range rows {
		out[i] = toContentRow(row)
	}
	writeJSON(w, http.StatusOK, ContentListResponse{Table: table, Rows: out})
}

// HandleGetContent returns one row
func (h *Handler) HandleGetContent(w http.ResponseWriter, r *http.Request) {
	id, ok := rowID(w, r)
	if !ok {
		return
	}

	row, err := h.content.GetRow(r.Context(), chi.URLParam(r, "table"), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContentRow(row))
}

// HandleUpdateContent replaces a row's content or some of its sections,
// then rebuilds the corpus in the background
func (h *Handler) HandleUpdateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := rowID(w, r)
	if !ok {
		return
	}
	table := chi.URLParam(r, "table")

	var req UpdateContentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContentBody)).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid content update")
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	hasContent := len(req.Content) > 0 && string(req.Content) != "null"
	if hasContent == (len(req.Sections) > 0) {
		writeError(w, http.StatusBadRequest, "exactly one of content or sections is required", "INVALID_UPDATE")
		return
	}

	var (
		row search.Row
		err error
	)
	if hasContent {
		row, err = h.content.ReplaceContent(r.Context(), table, id, req.Content)
	} else {
		row, err = h.content.MergeSections(r.Context(), table, id, req.Sections)
	}
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	editor, _ := auth.FromContext(r.Context())
	h.logger.Info().
		Str("table", table).
		Int64("row_id", id).
		Str("editor", editor.UserID).
		Int("sections", len(req.Sections)).
		Msg("content updated")

	h.reindex()
	writeJSON(w, http.StatusOK, toContentRow(row))
}

func rowID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer", "INVALID_ID")
		return 0, false
	}
	return id, true
}

// toContentRow passes content through as JSON. Content that does not parse
// is sent as a string so the row stays readable and fixable.
func toContentRow(row search.Row) ContentRow {
	content := json.RawMessage(row.Content)
	if len(content) > 0 && !json.Valid(content) {
		content, _ = json.Marshal(string(row.Content))
	}
	return ContentRow{ID: row.ID, Content: content}
}
