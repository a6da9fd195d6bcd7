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
	"go.uber.org/zap"

	pgrepo "github.com/rvconnect/backend/internal/repo/postgres"
	authsvc "github.com/rvconnect/backend/internal/services/auth"
)

type userStoreStub struct {
	users map[string]pgrepo.UserRecord
}

func newUserStoreStub() *userStoreStub {
	return &userStoreStub{users: make(map[string]pgrepo.UserRecord)}
}

func (s *userStoreStub) Create(_ context.Context, email, passwordHash string, now time.Time) (pgrepo.UserRecord, error) {
	if _, ok := s.users[email]; ok {
		return pgrepo.UserRecord{}, pgrepo.ErrEmailTaken
	}
	user := pgrepo.UserRecord{ID: uuid.New(), Email: email, PasswordHash: passwordHash, CreatedAt: now}
	s.users[email] = user
	return user, nil
}

func (s *userStoreStub) GetByEmail(_ context.Context, email string) (pgrepo.UserRecord, error) {
	user, ok := s.users[email]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (s *userStoreStub) GetByID(_ context.Context, userID uuid.UUID) (pgrepo.UserRecord, error) {
	for _, user := range s.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
}

func (s *userStoreStub) MarkConfirmed(_ context.Context, userID uuid.UUID) error {
	for email, user := range s.users {
		if user.ID == userID {
			user.Confirmed = true
			s.users[email] = user
			return nil
		}
	}
	return pgrepo.ErrUserNotFound
}

type sessionStoreStub struct {
	sessions  map[string]authsvc.SessionRecord
	byRefresh map[string]string
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{
		sessions:  make(map[string]authsvc.SessionRecord),
		byRefresh: make(map[string]string),
	}
}

func (s *sessionStoreStub) Create(_ context.Context, session authsvc.SessionRecord, refreshToken string) error {
	s.sessions[session.SID] = session
	s.byRefresh[refreshToken] = session.SID
	return nil
}

func (s *sessionStoreStub) GetSession(_ context.Context, sid string) (authsvc.SessionRecord, error) {
	session, ok := s.sessions[sid]
	if !ok {
		return authsvc.SessionRecord{}, authsvc.ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionStoreStub) GetByRefreshToken(_ context.Context, refreshToken string) (authsvc.SessionRecord, error) {
	sid, ok := s.byRefresh[refreshToken]
	if !ok {
		return authsvc.SessionRecord{}, authsvc.ErrRefreshNotFound
	}
	return s.sessions[sid], nil
}

func (s *sessionStoreStub) RotateRefresh(_ context.Context, sid, oldRefreshToken, newRefreshToken string, expiresAt time.Time) error {
	gotSID, ok := s.byRefresh[oldRefreshToken]
	if !ok || gotSID != sid {
		return authsvc.ErrRefreshNotFound
	}
	delete(s.byRefresh, oldRefreshToken)
	s.byRefresh[newRefreshToken] = sid
	session := s.sessions[sid]
	session.ExpiresAt = expiresAt
	s.sessions[sid] = session
	return nil
}

func (s *sessionStoreStub) DeleteSession(_ context.Context, sid string) error {
	delete(s.sessions, sid)
	return nil
}

func (s *sessionStoreStub) DeleteAllForUser(_ context.Context, userID uuid.UUID) error {
	for sid, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, sid)
		}
	}
	return nil
}

type mailerStub struct{}

func (mailerStub) Send(context.Context, string, string, string) error { return nil }

func newAuthHandlerFixture() (*AuthHandler, *userStoreStub, *authsvc.Service) {
	users := newUserStoreStub()
	svc := authsvc.NewService(authsvc.Dependencies{
		JWT:      authsvc.NewJWTManager("test-secret", 15*time.Minute, time.Hour),
		Users:    users,
		Sessions: newSessionStoreStub(),
		Mailer:   mailerStub{},
		Logger:   zap.NewNop(),
	}, authsvc.MinRefreshTTL, authsvc.Config{
		EmailDomain:     "rvce.edu.in",
		MinPasswordLen:  6,
		FrontendBaseURL: "https://app.example.edu",
	})
	return NewAuthHandler(svc, "https://app.example.edu"), users, svc
}

func TestSignUpRejectsForeignDomain(t *testing.T) {
	h, _, _ := newAuthHandlerFixture()

	body, _ := json.Marshal(map[string]string{"email": "a@gmail.com", "password": "secret1"})
	rr := httptest.NewRecorder()
	h.SignUp(rr, httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "INVALID_EMAIL_DOMAIN" {
		t.Fatalf("code = %q, want INVALID_EMAIL_DOMAIN", payload.Code)
	}
}

func TestSignUpReturnsCreated(t *testing.T) {
	h, _, _ := newAuthHandlerFixture()

	body, _ := json.Marshal(map[string]string{"email": "a@rvce.edu.in", "password": "secret1"})
	rr := httptest.NewRecorder()
	h.SignUp(rr, httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body)))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var payload struct {
		Email                string `json:"email"`
		ConfirmationRequired bool   `json:"confirmation_required"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Email != "a@rvce.edu.in" || !payload.ConfirmationRequired {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestConfirmRedirectsToLogin(t *testing.T) {
	h, users, svc := newAuthHandlerFixture()

	me, err := svc.SignUp(context.Background(), "a@rvce.edu.in", "secret1")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	// Same secret as the fixture, so the token verifies.
	token, err := authsvc.NewJWTManager("test-secret", 15*time.Minute, time.Hour).GenerateConfirmToken(me.ID)
	if err != nil {
		t.Fatalf("confirm token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/confirm/"+token, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("token", token)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	h.Confirm(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != "https://app.example.edu/login" {
		t.Fatalf("redirect = %q, want login page", got)
	}
	if !users.users["a@rvce.edu.in"].Confirmed {
		t.Fatal("user must be confirmed after redirect")
	}
}

func TestConfirmRejectsGarbageToken(t *testing.T) {
	h, _, _ := newAuthHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/confirm/garbage", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("token", "garbage")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	h.Confirm(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestLoginBlocksUnconfirmed(t *testing.T) {
	h, _, svc := newAuthHandlerFixture()

	if _, err := svc.SignUp(context.Background(), "a@rvce.edu.in", "secret1"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"email": "a@rvce.edu.in", "password": "secret1"})
	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body)))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}
