package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/rvconnect/backend/internal/services/auth"
	feedsvc "github.com/rvconnect/backend/internal/services/feed"
	"github.com/rvconnect/backend/internal/transport/http/dto"
	httperrors "github.com/rvconnect/backend/internal/transport/http/errors"
)

type FeedHandler struct {
	service *feedsvc.Service
}

func NewFeedHandler(service *feedsvc.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	cards, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, feedsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid feed request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "feed lookup failed")
		return
	}

	items := make([]dto.FeedCardResponse, 0, len(cards))
	for _, card := range cards {
		items = append(items, dto.FeedCardResponse{
			UserID:    card.UserID.String(),
			Name:      card.Name,
			Age:       card.Age,
			Bio:       card.Bio,
			PhotoURL1: card.PhotoURL1,
			PhotoURL2: card.PhotoURL2,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.FeedResponse{Items: items})
}
