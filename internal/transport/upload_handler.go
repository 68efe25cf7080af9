package transport

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"marketplace/internal/domain"
	"marketplace/internal/media"
	"marketplace/internal/middleware"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

// UploadHandler accepts dashboard image uploads
type UploadHandler struct {
	uploader media.Uploader
	logger   *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploader media.Uploader, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, logger: logger}
}

// RegisterRoutes registers the upload routes behind guard
func (h *UploadHandler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.With(guard).Post("/api/uploads", h.Upload)
	r.With(guard).Delete("/api/uploads", h.Destroy)
}

// Upload stores the multipart "file" field in the caller's folder and returns its URL
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.Debug("Upload without file", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		h.logger.Debug("Upload could not be sniffed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		middleware.RespondWithError(w, http.StatusBadRequest, "only image uploads are allowed")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	asset, err := h.uploader.Upload(r.Context(), session.UserID, file, header.Filename)
	if err != nil {
		if errors.Is(err, media.ErrNotConfigured) {
			middleware.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.logger.Error("Upload failed", zap.String("filename", header.Filename), zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to upload image")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, asset)
}

// Destroy removes an uploaded image by ?publicId=. Sellers may only remove
// their own uploads; admins may remove any.
func (h *UploadHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	publicID := r.URL.Query().Get("publicId")
	if publicID == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "publicId is required")
		return
	}
	if !session.HasRole(domain.RoleAdmin) && !h.uploader.Owns(session.UserID, publicID) {
		h.logger.Warn("Image delete outside caller's folder",
			zap.String("user_id", session.UserID.String()),
			zap.String("public_id", publicID),
		)
		middleware.RespondWithError(w, http.StatusForbidden, "you can only delete your own images")
		return
	}

	if err := h.uploader.Destroy(r.Context(), publicID); err != nil {
		if errors.Is(err, media.ErrNotConfigured) {
			middleware.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.logger.Error("Image delete failed", zap.String("public_id", publicID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to delete image")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Image has been deleted."})
}
