package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authsvc "github.com/rvconnect/backend/internal/services/auth"
	matchessvc "github.com/rvconnect/backend/internal/services/matches"
	"github.com/rvconnect/backend/internal/transport/http/dto"
	httperrors "github.com/rvconnect/backend/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchessvc.Service
}

func NewMatchesHandler(service *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	items, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		handleMatchesError(w, err)
		return
	}

	resp := dto.MatchesResponse{Items: make([]dto.MatchItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.MatchItemResponse{
			ID: item.ID.String(),
			OtherUser: dto.FeedCardResponse{
				UserID:    item.OtherUser.UserID.String(),
				Name:      item.OtherUser.Name,
				Age:       item.OtherUser.Age,
				Bio:       item.OtherUser.Bio,
				PhotoURL1: item.OtherUser.PhotoURL1,
				PhotoURL2: item.OtherUser.PhotoURL2,
			},
			CreatedAt: item.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func (h *MatchesHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	matchID, ok := matchIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "match id must be a uuid")
		return
	}

	match, err := h.service.Authorize(r.Context(), identity.UserID, matchID)
	if err != nil {
		handleMatchesError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MatchResponse{
		ID:          match.ID.String(),
		UserAID:     match.UserAID.String(),
		UserBID:     match.UserBID.String(),
		OtherUserID: matchessvc.OtherParticipant(match, identity.UserID).String(),
		CreatedAt:   match.CreatedAt,
	})
}

func handleMatchesError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matchessvc.ErrMatchNotFound):
		httperrors.Write(w, http.StatusNotFound, httperrors.APIError{
			Code:    "MATCH_NOT_FOUND",
			Message: "match not found",
		})
	case errors.Is(err, matchessvc.ErrForbidden):
		httperrors.Write(w, http.StatusForbidden, httperrors.APIError{
			Code:    "FORBIDDEN",
			Message: "you are not a participant of this match",
		})
	case errors.Is(err, matchessvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match request")
	default:
		writeInternal(w, "INTERNAL_ERROR", "match operation failed")
	}
}

func matchIDFromURL(r *http.Request) (uuid.UUID, bool) {
	matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		return uuid.Nil, false
	}
	return matchID, true
}
