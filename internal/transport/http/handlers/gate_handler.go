package handlers

import (
	"net/http"

	authsvc "github.com/rvconnect/backend/internal/services/auth"
	gatesvc "github.com/rvconnect/backend/internal/services/gate"
	"github.com/rvconnect/backend/internal/transport/http/dto"
	httperrors "github.com/rvconnect/backend/internal/transport/http/errors"
)

type GateHandler struct {
	service *gatesvc.Service
}

func NewGateHandler(service *gatesvc.Service) *GateHandler {
	return &GateHandler{service: service}
}

func (h *GateHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "GATE_SERVICE_UNAVAILABLE", "gate service is unavailable")
		return
	}

	state, err := h.service.Resolve(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "gate resolution failed")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.GateResponse{
		Screen:          state.Screen,
		ProfileComplete: state.ProfileComplete,
	})
}
