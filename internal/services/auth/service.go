package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	pgrepo "github.com/rvconnect/backend/internal/repo/postgres"
)

const (
	MinRefreshTTL = 30 * 24 * time.Hour
	MaxRefreshTTL = 90 * 24 * time.Hour
)

type UserStore interface {
	Create(ctx context.Context, email, passwordHash string, now time.Time) (pgrepo.UserRecord, error)
	GetByEmail(ctx context.Context, email string) (pgrepo.UserRecord, error)
	GetByID(ctx context.Context, userID uuid.UUID) (pgrepo.UserRecord, error)
	MarkConfirmed(ctx context.Context, userID uuid.UUID) error
}

type SessionStore interface {
	Create(ctx context.Context, session SessionRecord, refreshToken string) error
	GetSession(ctx context.Context, sid string) (SessionRecord, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (SessionRecord, error)
	RotateRefresh(ctx context.Context, sid, oldRefreshToken, newRefreshToken string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, sid string) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type Config struct {
	EmailDomain     string
	MinPasswordLen  int
	FrontendBaseURL string
}

type Service struct {
	jwt        *JWTManager
	users      UserStore
	sessions   SessionStore
	mailer     Mailer
	refreshTTL time.Duration
	cfg        Config
	logger     *zap.Logger
	now        func() time.Time
	sendAsync  func(func())
}

type Dependencies struct {
	JWT      *JWTManager
	Users    UserStore
	Sessions SessionStore
	Mailer   Mailer
	Logger   *zap.Logger
}

func NewService(deps Dependencies, refreshTTL time.Duration, cfg Config) *Service {
	if refreshTTL < MinRefreshTTL {
		refreshTTL = MinRefreshTTL
	}
	if refreshTTL > MaxRefreshTTL {
		refreshTTL = MaxRefreshTTL
	}
	if cfg.EmailDomain == "" {
		cfg.EmailDomain = "rvce.edu.in"
	}
	if cfg.MinPasswordLen <= 0 {
		cfg.MinPasswordLen = 6
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		jwt:        deps.JWT,
		users:      deps.Users,
		sessions:   deps.Sessions,
		mailer:     deps.Mailer,
		refreshTTL: refreshTTL,
		cfg:        cfg,
		logger:     log,
		now:        time.Now,
		sendAsync:  func(fn func()) { go fn() },
	}
}

// SignUp validates inline, creates an unconfirmed account and queues the
// confirmation email. Mail delivery failure is logged, not surfaced: the
// account exists and a later confirm attempt can still succeed.
func (s *Service) SignUp(ctx context.Context, email, password string) (Me, error) {
	normEmail, err := ValidateEmail(email, s.cfg.EmailDomain)
	if err != nil {
		return Me{}, err
	}
	if err := ValidatePassword(password, s.cfg.MinPasswordLen); err != nil {
		return Me{}, err
	}
	if s.users == nil || s.jwt == nil {
		return Me{}, fmt.Errorf("auth dependencies are not configured")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Me{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, normEmail, hash, s.now().UTC())
	if err != nil {
		if errors.Is(err, pgrepo.ErrEmailTaken) {
			return Me{}, ErrEmailTaken
		}
		return Me{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwt.GenerateConfirmToken(user.ID)
	if err != nil {
		return Me{}, fmt.Errorf("generate confirm token: %w", err)
	}

	s.queueConfirmationMail(user.Email, token)

	return Me{ID: user.ID, Email: user.Email}, nil
}

func (s *Service) queueConfirmationMail(email, token string) {
	if s.mailer == nil {
		s.logger.Warn("mailer is not configured, confirmation mail skipped", zap.String("email", email))
		return
	}

	confirmURL := fmt.Sprintf("%s/confirm/%s", strings.TrimRight(s.cfg.FrontendBaseURL, "/"), token)
	body := fmt.Sprintf(`Please click <a href=%q>here</a> to confirm your email`, confirmURL)

	s.sendAsync(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.Send(ctx, email, "Confirm Your Email", body); err != nil {
			s.logger.Error("send confirmation mail", zap.Error(err), zap.String("email", email))
		}
	})
}

// ConfirmEmail verifies the emailed token and flips the account to confirmed.
func (s *Service) ConfirmEmail(ctx context.Context, token string) error {
	if s.jwt == nil || s.users == nil {
		return fmt.Errorf("auth dependencies are not configured")
	}

	userID, err := s.jwt.ParseConfirmToken(token)
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.users.MarkConfirmed(ctx, userID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("mark user confirmed: %w", err)
	}

	return nil
}

func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	normEmail, err := ValidateEmail(email, s.cfg.EmailDomain)
	if err != nil {
		return AuthResult{}, err
	}
	if err := ValidatePassword(password, s.cfg.MinPasswordLen); err != nil {
		return AuthResult{}, err
	}
	if s.users == nil || s.sessions == nil || s.jwt == nil {
		return AuthResult{}, fmt.Errorf("auth dependencies are not configured")
	}

	user, err := s.users.GetByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("get user by email: %w", err)
	}

	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return AuthResult{}, ErrUnauthorized
	}
	if !user.Confirmed {
		return AuthResult{}, ErrNotConfirmed
	}

	return s.issueForUser(ctx, user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return AuthResult{}, ErrInvalidInput
	}

	session, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("get refresh token session: %w", err)
	}
	if s.now().After(session.ExpiresAt) {
		return AuthResult{}, ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("get session user: %w", err)
	}

	newRefreshToken, err := NewRefreshToken()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
	}

	newExpiresAt := s.now().Add(s.refreshTTL)
	if err := s.sessions.RotateRefresh(ctx, session.SID, refreshToken, newRefreshToken, newExpiresAt); err != nil {
		if errors.Is(err, ErrRefreshNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(session.UserID, session.SID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		AccessToken:   accessToken,
		RefreshToken:  newRefreshToken,
		AccessExpires: accessExpires,
		Me: Me{
			ID:    user.ID,
			Email: user.Email,
		},
	}, nil
}

func (s *Service) Logout(ctx context.Context, sid string) error {
	if strings.TrimSpace(sid) == "" {
		return ErrInvalidInput
	}
	if err := s.sessions.DeleteSession(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrInvalidInput
	}
	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete all sessions: %w", err)
	}
	return nil
}

func (s *Service) ValidateAccessToken(ctx context.Context, accessToken string) (AccessClaims, error) {
	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return AccessClaims{}, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return AccessClaims{}, ErrUnauthorized
		}
		return AccessClaims{}, fmt.Errorf("get session: %w", err)
	}

	if session.UserID != claims.UserID {
		return AccessClaims{}, ErrUnauthorized
	}
	if s.now().After(session.ExpiresAt) {
		return AccessClaims{}, ErrUnauthorized
	}

	return claims, nil
}

func (s *Service) issueForUser(ctx context.Context, user pgrepo.UserRecord) (AuthResult, error) {
	sessionID, err := NewSessionID()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate session id: %w", err)
	}
	refreshToken, err := NewRefreshToken()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
	}

	sessionExpiresAt := s.now().Add(s.refreshTTL)
	session := SessionRecord{
		SID:       sessionID,
		UserID:    user.ID,
		ExpiresAt: sessionExpiresAt,
	}
	if err := s.sessions.Create(ctx, session, refreshToken); err != nil {
		return AuthResult{}, fmt.Errorf("create session: %w", err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(user.ID, sessionID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		AccessExpires: accessExpires,
		Me: Me{
			ID:    user.ID,
			Email: user.Email,
		},
	}, nil
}
