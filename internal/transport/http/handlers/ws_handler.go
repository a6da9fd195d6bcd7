package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	authsvc "github.com/rvconnect/backend/internal/services/auth"
	chatsvc "github.com/rvconnect/backend/internal/services/chat"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingPeriod   = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// WSHandler streams new chat messages for one match over a websocket.
// Browsers cannot set an Authorization header on the websocket handshake, so
// the access token arrives as a query parameter instead.
type WSHandler struct {
	auth   *authsvc.Service
	chat   *chatsvc.Service
	logger *zap.Logger
}

func NewWSHandler(auth *authsvc.Service, chat *chatsvc.Service, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		auth:   auth,
		chat:   chat,
		logger: logger,
	}
}

func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil || h.chat == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		writeUnauthorized(w, "UNAUTHORIZED", "token query parameter is required")
		return
	}

	claims, err := h.auth.ValidateAccessToken(r.Context(), token)
	if err != nil {
		writeUnauthorized(w, "UNAUTHORIZED", "invalid access token")
		return
	}

	matchID, ok := matchIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "match id must be a uuid")
		return
	}

	events, release, err := h.chat.Subscribe(r.Context(), claims.UserID, matchID)
	if err != nil {
		handleChatError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		release()
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	log := h.logger.With(
		zap.String("match_id", matchID.String()),
		zap.String("user_id", claims.UserID.String()),
	)
	log.Info("chat subscriber connected")

	done := make(chan struct{})

	// Reader detects the peer going away. Inbound frames are not part of the
	// protocol; messages are sent over HTTP.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		release()
		_ = conn.Close()
		log.Info("chat subscriber disconnected")
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
