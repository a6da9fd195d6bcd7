package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/rvconnect/backend/internal/services/auth"
	mediasvc "github.com/rvconnect/backend/internal/services/media"
	"github.com/rvconnect/backend/internal/transport/http/dto"
	httperrors "github.com/rvconnect/backend/internal/transport/http/errors"
)

const maxPhotoUploadSize = 10 << 20 // 10 MiB form budget, object cap is tighter

type PhotoHandler struct {
	service *mediasvc.Service
}

func NewPhotoHandler(service *mediasvc.Service) *PhotoHandler {
	return &PhotoHandler{service: service}
}

// Upload stores a photo into the slot named in the URL and returns the
// updated profile so the client can re-check completeness without a second
// request.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "photo slot must be 1 or 2")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadSize)
	if err := r.ParseMultipartForm(maxPhotoUploadSize); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "file is required")
		return
	}
	defer file.Close()

	if header == nil || header.Size <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "file is empty")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	photo, err := h.service.UploadPhoto(r.Context(), identity.UserID, slot, header.Filename, contentType, file, header.Size)
	if err != nil {
		handlePhotoError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PhotoUploadResponse{
		Slot: photo.Slot,
		URL:  photo.URL,
		Profile: dto.ProfileResponse{
			UserID:    photo.Profile.UserID.String(),
			Name:      photo.Profile.Name,
			Age:       photo.Profile.Age,
			Bio:       photo.Profile.Bio,
			PhotoURL1: photo.Profile.PhotoURL1,
			PhotoURL2: photo.Profile.PhotoURL2,
			Complete:  photo.Profile.Complete(),
			UpdatedAt: photo.Profile.UpdatedAt,
		},
	})
}

func handlePhotoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mediasvc.ErrInvalidSlot):
		writeBadRequest(w, "VALIDATION_ERROR", "photo slot must be 1 or 2")
	case errors.Is(err, mediasvc.ErrTooLarge):
		httperrors.Write(w, http.StatusRequestEntityTooLarge, httperrors.APIError{
			Code:    "PHOTO_TOO_LARGE",
			Message: "photo exceeds the size limit",
		})
	case errors.Is(err, mediasvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid photo upload")
	default:
		writeInternal(w, "INTERNAL_ERROR", "photo upload failed")
	}
}
