package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pgrepo "github.com/rvconnect/backend/internal/repo/postgres"
	authsvc "github.com/rvconnect/backend/internal/services/auth"
	chatsvc "github.com/rvconnect/backend/internal/services/chat"
	matchessvc "github.com/rvconnect/backend/internal/services/matches"
)

type messageStoreStub struct {
	rows []pgrepo.MessageRecord
}

func (s *messageStoreStub) Create(_ context.Context, matchID, senderID uuid.UUID, text string) (pgrepo.MessageRecord, error) {
	rec := pgrepo.MessageRecord{
		ID:        uuid.New(),
		MatchID:   matchID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	s.rows = append(s.rows, rec)
	return rec, nil
}

func (s *messageStoreStub) ListByMatch(_ context.Context, matchID uuid.UUID, _ int) ([]pgrepo.MessageRecord, error) {
	out := make([]pgrepo.MessageRecord, 0, len(s.rows))
	for _, rec := range s.rows {
		if rec.MatchID == matchID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type matchStoreStub struct {
	match pgrepo.MatchRecord
}

func (s *matchStoreStub) ListForUser(_ context.Context, _ uuid.UUID, _ int) ([]pgrepo.MatchWithProfileRecord, error) {
	return nil, nil
}

func (s *matchStoreStub) GetByID(_ context.Context, matchID uuid.UUID) (pgrepo.MatchRecord, error) {
	if matchID != s.match.ID {
		return pgrepo.MatchRecord{}, pgrepo.ErrMatchNotFound
	}
	return s.match, nil
}

func newChatHandlerFixture() (*ChatHandler, pgrepo.MatchRecord) {
	match := pgrepo.MatchRecord{
		ID:        uuid.New(),
		UserAID:   uuid.New(),
		UserBID:   uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	matchSvc := matchessvc.NewService(&matchStoreStub{match: match})
	chatSvc := chatsvc.NewService(chatsvc.Dependencies{
		Messages: &messageStoreStub{},
		Matches:  matchSvc,
		Hub:      chatsvc.NewHub(),
	})
	return NewChatHandler(chatSvc), match
}

func newChatRequest(method, path string, body []byte, userID uuid.UUID, matchID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: userID,
		SID:    "sid-test",
	}))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("matchID", matchID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSendMessageReturnsCreated(t *testing.T) {
	h, match := newChatHandlerFixture()

	body, _ := json.Marshal(map[string]string{"message_text": "  hello  "})
	req := newChatRequest(http.MethodPost, "/v1/matches/"+match.ID.String()+"/messages", body, match.UserAID, match.ID)

	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var payload struct {
		Text     string `json:"message_text"`
		SenderID string `json:"sender_id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Text != "hello" {
		t.Fatalf("text = %q, want trimmed %q", payload.Text, "hello")
	}
	if payload.SenderID != match.UserAID.String() {
		t.Fatalf("sender = %q, want %q", payload.SenderID, match.UserAID)
	}
}

func TestSendMessageRejectsBlankText(t *testing.T) {
	h, match := newChatHandlerFixture()

	body, _ := json.Marshal(map[string]string{"message_text": "   "})
	req := newChatRequest(http.MethodPost, "/v1/matches/"+match.ID.String()+"/messages", body, match.UserAID, match.ID)

	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "EMPTY_MESSAGE" {
		t.Fatalf("code = %q, want EMPTY_MESSAGE", payload.Code)
	}
}

func TestSendMessageForbiddenForOutsider(t *testing.T) {
	h, match := newChatHandlerFixture()

	body, _ := json.Marshal(map[string]string{"message_text": "hello"})
	req := newChatRequest(http.MethodPost, "/v1/matches/"+match.ID.String()+"/messages", body, uuid.New(), match.ID)

	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestListMessagesUnknownMatch(t *testing.T) {
	h, match := newChatHandlerFixture()

	unknown := uuid.New()
	req := newChatRequest(http.MethodGet, "/v1/matches/"+unknown.String()+"/messages", nil, match.UserAID, unknown)

	rr := httptest.NewRecorder()
	h.ListMessages(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestListMessagesRequiresAuth(t *testing.T) {
	h, match := newChatHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/"+match.ID.String()+"/messages", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("matchID", match.ID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	h.ListMessages(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
