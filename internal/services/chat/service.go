package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	pgrepo "github.com/rvconnect/backend/internal/repo/postgres"
)

const (
	MaxMessageLen      = 2000
	defaultHistorySize = 500
)

var (
	ErrValidation   = errors.New("validation error")
	ErrEmptyMessage = errors.New("message text is empty")
	ErrTooLong      = errors.New("message text is too long")
)

type MessageStore interface {
	Create(ctx context.Context, matchID, senderID uuid.UUID, text string) (pgrepo.MessageRecord, error)
	ListByMatch(ctx context.Context, matchID uuid.UUID, limit int) ([]pgrepo.MessageRecord, error)
}

type MatchAuthorizer interface {
	Authorize(ctx context.Context, userID, matchID uuid.UUID) (pgrepo.MatchRecord, error)
}

type Service struct {
	messages MessageStore
	matches  MatchAuthorizer
	hub      *Hub
}

type Dependencies struct {
	Messages MessageStore
	Matches  MatchAuthorizer
	Hub      *Hub
}

func NewService(deps Dependencies) *Service {
	return &Service{
		messages: deps.Messages,
		matches:  deps.Matches,
		hub:      deps.Hub,
	}
}

func (s *Service) ListMessages(ctx context.Context, userID, matchID uuid.UUID) ([]pgrepo.MessageRecord, error) {
	if userID == uuid.Nil || matchID == uuid.Nil {
		return nil, ErrValidation
	}
	if s.messages == nil || s.matches == nil {
		return nil, fmt.Errorf("chat dependencies are not configured")
	}

	if _, err := s.matches.Authorize(ctx, userID, matchID); err != nil {
		return nil, err
	}

	rows, err := s.messages.ListByMatch(ctx, matchID, defaultHistorySize)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return rows, nil
}

// SendMessage persists the message and fans it out to the match's live
// subscribers. The stored row is returned so the HTTP response and the
// broadcast carry identical id and created_at.
func (s *Service) SendMessage(ctx context.Context, userID, matchID uuid.UUID, text string) (pgrepo.MessageRecord, error) {
	if userID == uuid.Nil || matchID == uuid.Nil {
		return pgrepo.MessageRecord{}, ErrValidation
	}
	if s.messages == nil || s.matches == nil {
		return pgrepo.MessageRecord{}, fmt.Errorf("chat dependencies are not configured")
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return pgrepo.MessageRecord{}, ErrEmptyMessage
	}
	if len([]rune(trimmed)) > MaxMessageLen {
		return pgrepo.MessageRecord{}, ErrTooLong
	}

	if _, err := s.matches.Authorize(ctx, userID, matchID); err != nil {
		return pgrepo.MessageRecord{}, err
	}

	rec, err := s.messages.Create(ctx, matchID, userID, trimmed)
	if err != nil {
		return pgrepo.MessageRecord{}, fmt.Errorf("create message: %w", err)
	}

	if s.hub != nil {
		s.hub.Broadcast(eventFromRecord(rec))
	}

	return rec, nil
}

// Subscribe authorizes the user for the match and attaches a live listener.
func (s *Service) Subscribe(ctx context.Context, userID, matchID uuid.UUID) (<-chan Event, func(), error) {
	if userID == uuid.Nil || matchID == uuid.Nil {
		return nil, nil, ErrValidation
	}
	if s.matches == nil || s.hub == nil {
		return nil, nil, fmt.Errorf("chat dependencies are not configured")
	}

	if _, err := s.matches.Authorize(ctx, userID, matchID); err != nil {
		return nil, nil, err
	}

	events, release := s.hub.Subscribe(matchID, userID)
	return events, release, nil
}

func eventFromRecord(rec pgrepo.MessageRecord) Event {
	return Event{
		MessageID:   rec.ID,
		MatchID:     rec.MatchID,
		SenderID:    rec.SenderID,
		Text:        rec.Text,
		SenderName:  rec.SenderName,
		SenderPhoto: rec.SenderPhoto,
		CreatedAt:   rec.CreatedAt,
	}
}
