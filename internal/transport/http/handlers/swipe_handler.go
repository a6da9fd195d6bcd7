package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	authsvc "github.com/rvconnect/backend/internal/services/auth"
	swipessvc "github.com/rvconnect/backend/internal/services/swipes"
	"github.com/rvconnect/backend/internal/transport/http/dto"
	httperrors "github.com/rvconnect/backend/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipessvc.Service
}

func NewSwipeHandler(service *swipessvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	targetID, err := uuid.Parse(req.TargetUserID)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "target_user_id must be a uuid")
		return
	}

	result, err := h.service.Swipe(r.Context(), identity.UserID, targetID, req.Direction)
	if err != nil {
		handleSwipeError(w, err)
		return
	}

	resp := dto.SwipeResponse{
		Direction:    result.Direction,
		MatchCreated: result.MatchCreated,
	}
	if result.MatchID != uuid.Nil {
		resp.MatchID = result.MatchID.String()
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func handleSwipeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, swipessvc.ErrUnsupportedDecision):
		writeBadRequest(w, "VALIDATION_ERROR", "direction must be left or right")
	case errors.Is(err, swipessvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
	default:
		writeInternal(w, "INTERNAL_ERROR", "swipe failed")
	}
}
