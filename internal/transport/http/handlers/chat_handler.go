package handlers

import (
	"errors"
	"net/http"

	pgrepo "github.com/rvconnect/backend/internal/repo/postgres"
	authsvc "github.com/rvconnect/backend/internal/services/auth"
	chatsvc "github.com/rvconnect/backend/internal/services/chat"
	matchessvc "github.com/rvconnect/backend/internal/services/matches"
	"github.com/rvconnect/backend/internal/transport/http/dto"
	httperrors "github.com/rvconnect/backend/internal/transport/http/errors"
)

type ChatHandler struct {
	service *chatsvc.Service
}

func NewChatHandler(service *chatsvc.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	matchID, ok := matchIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "match id must be a uuid")
		return
	}

	rows, err := h.service.ListMessages(r.Context(), identity.UserID, matchID)
	if err != nil {
		handleChatError(w, err)
		return
	}

	resp := dto.MessagesResponse{Items: make([]dto.MessageResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Items = append(resp.Items, messageResponse(row))
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	matchID, ok := matchIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "match id must be a uuid")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	rec, err := h.service.SendMessage(r.Context(), identity.UserID, matchID, req.Text)
	if err != nil {
		handleChatError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, messageResponse(rec))
}

func handleChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatsvc.ErrEmptyMessage):
		writeBadRequest(w, "EMPTY_MESSAGE", "message text must not be empty")
	case errors.Is(err, chatsvc.ErrTooLong):
		writeBadRequest(w, "MESSAGE_TOO_LONG", "message text is too long")
	case errors.Is(err, chatsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid chat request")
	case errors.Is(err, matchessvc.ErrMatchNotFound), errors.Is(err, matchessvc.ErrForbidden):
		handleMatchesError(w, err)
	default:
		writeInternal(w, "INTERNAL_ERROR", "chat operation failed")
	}
}

func messageResponse(rec pgrepo.MessageRecord) dto.MessageResponse {
	return dto.MessageResponse{
		ID:          rec.ID.String(),
		MatchID:     rec.MatchID.String(),
		SenderID:    rec.SenderID.String(),
		Text:        rec.Text,
		SenderName:  rec.SenderName,
		SenderPhoto: rec.SenderPhoto,
		CreatedAt:   rec.CreatedAt,
	}
}
