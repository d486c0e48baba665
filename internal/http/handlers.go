package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/guiafaen/guia/internal/libs/respond"
	"github.com/guiafaen/guia/internal/scope/db"
	"github.com/guiafaen/guia/internal/scope/media"
	"github.com/guiafaen/guia/internal/scope/search"
)

const defaultReindexTimeout = 30 * time.Second

// Index is the search index served by the API
type Index interface {
	Search(query string) []search.Result
	Stats() search.Stats
	Load(ctx context.Context) search.Stats
}

// ImageStore stores uploaded images
type ImageStore interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (media.Object, error)
	MaxBytes() int64
}

// Handler contains HTTP handlers for the API
type Handler struct {
	index   Index
	content db.ContentStore
	tables  []search.Table
	images  ImageStore
	logger  zerolog.Logger

	reindexTimeout time.Duration
	wg             sync.WaitGroup
}

// Option configures a Handler
type Option func(*Handler)

// WithImages enables image uploads
func WithImages(images ImageStore) Option {
	return func(h *Handler) { h.images = images }
}

// WithReindexTimeout bounds the background rebuild that follows an edit
func WithReindexTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.reindexTimeout = d
		}
	}
}

// NewHandler creates a new HTTP handler. tables are the searched tables and
// their screens, in corpus order.
func NewHandler(index Index, content db.ContentStore, tables []search.Table, logger zerolog.Logger, opts ...Option) *Handler {
	h := &Handler{
		index:          index,
		content:        content,
		tables:         tables,
		logger:         logger,
		reindexTimeout: defaultReindexTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Wait blocks until background rebuilds started by edits have finished
func (h *Handler) Wait() {
	h.wg.Wait()
}

// reindex rebuilds the corpus off the request path
func (h *Handler) reindex() {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), h.reindexTimeout)
		defer cancel()
		h.index.Load(ctx)
	}()
}

// Helper functions used across all handlers

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	respond.JSON(w, status, data)
}

// writeError writes an error response with the given status code
func writeError(w http.ResponseWriter, status int, message, code string) {
	respond.Error(w, status, message, code)
}

// writeStoreError maps content store errors to responses
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrUnknownTable):
		writeError(w, http.StatusNotFound, "unknown table", "UNKNOWN_TABLE")
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, "row not found", "NOT_FOUND")
	case errors.Is(err, db.ErrInvalidContent):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_CONTENT")
	default:
		h.logger.Error().Err(err).Msg("content store failed")
		writeError(w, http.StatusInternalServerError, "content store unavailable", "STORE_ERROR")
	}
}
