package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/publicfix/publicfix/internal/photostore"
	"github.com/publicfix/publicfix/internal/service"
)

const maxPhotoSize = 20 << 20 // 20 MiB

// allowedImageTypes are the sniffed types accepted for report photos.
// http.DetectContentType has no WebP signature, see isWebP.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// photoUpload sniffs an uploaded file. An empty upload means no photo was
// picked. A file in an unsupported format is dropped and reported through
// rejected, so the form treats it like a missing photo.
func (s *Server) photoUpload(data []byte) (photo *service.PhotoUpload, rejected bool) {
	if len(data) == 0 {
		return nil, false
	}
	mimeType, ok := allowedImageMIME(data)
	if !ok {
		s.logger.Info("rejected photo upload",
			"detected", http.DetectContentType(data),
			"size", humanize.IBytes(uint64(len(data))),
		)
		return nil, true
	}
	return &service.PhotoUpload{Data: data, MimeType: mimeType}, false
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	reader, mimeType, err := s.photoStore.Get(r.Context(), key)
	if err != nil {
		if !errors.Is(err, photostore.ErrNotFound) {
			s.logger.Error("open photo failed", "storage_key", key, "error", err)
		}
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(reader, "photo reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write photo failed", "storage_key", key, "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
