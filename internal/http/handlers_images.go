package httpapi

import (
	"errors"
	"net/http"

	"github.com/guiafaen/guia/internal/scope/media"
)

// multipartOverhead allows for headers and boundaries around the file part
const multipartOverhead = 64 << 10

// HandleUploadImage stores the multipart "file" field in the image bucket
func (h *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		writeError(w, http.StatusServiceUnavailable, "image storage is not configured", "STORAGE_DISABLED")
		return
	}

	limit := h.images.MaxBytes() + multipartOverhead
	if r.ContentLength > limit {
		writeError(w, http.StatusRequestEntityTooLarge, media.ErrTooLarge.Error(), "TOO_LARGE")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, media.ErrTooLarge.Error(), "TOO_LARGE")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required", "MISSING_FILE")
		return
	}
	defer func() { _ = file.Close() }()

	obj, err := h.images.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	switch {
	case errors.Is(err, media.ErrUnsupportedType):
		writeError(w, http.StatusUnsupportedMediaType, err.Error(), "UNSUPPORTED_TYPE")
		return
	case errors.Is(err, media.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error(), "TOO_LARGE")
		return
	case err != nil:
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("image upload failed")
		writeError(w, http.StatusBadGateway, "could not store image", "STORAGE_ERROR")
		return
	}

	writeJSON(w, http.StatusCreated, ImageResponse{Path: obj.Path, URL: obj.URL})
}
