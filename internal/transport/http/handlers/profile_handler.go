package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/rvconnect/backend/internal/services/auth"
	profilessvc "github.com/rvconnect/backend/internal/services/profiles"
	"github.com/rvconnect/backend/internal/transport/http/dto"
	httperrors "github.com/rvconnect/backend/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilessvc.Service
}

func NewProfileHandler(service *profilessvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, profileResponse(profile))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	profile, err := h.service.Update(r.Context(), identity.UserID, profilessvc.UpdateInput{
		Name: req.Name,
		Age:  req.Age,
		Bio:  req.Bio,
	})
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, profileResponse(profile))
}

func handleProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profilessvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile input")
	default:
		writeInternal(w, "INTERNAL_ERROR", "profile operation failed")
	}
}

func profileResponse(profile profilessvc.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:    profile.UserID.String(),
		Name:      profile.Name,
		Age:       profile.Age,
		Bio:       profile.Bio,
		PhotoURL1: profile.PhotoURL1,
		PhotoURL2: profile.PhotoURL2,
		Complete:  profile.Complete,
		UpdatedAt: profile.UpdatedAt,
	}
}
