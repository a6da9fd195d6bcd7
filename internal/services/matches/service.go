package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	pgrepo "github.com/rvconnect/backend/internal/repo/postgres"
)

const defaultListLimit = 100

var (
	ErrValidation    = errors.New("validation error")
	ErrMatchNotFound = errors.New("match not found")
	ErrForbidden     = errors.New("not a participant of this match")
)

type MatchStore interface {
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]pgrepo.MatchWithProfileRecord, error)
	GetByID(ctx context.Context, matchID uuid.UUID) (pgrepo.MatchRecord, error)
}

type Service struct {
	store MatchStore
}

type MatchItem struct {
	ID        uuid.UUID
	OtherUser pgrepo.ProfileRecord
	CreatedAt time.Time
}

func NewService(store MatchStore) *Service {
	return &Service{store: store}
}

// List returns the user's matches, newest first, each with the other
// participant's profile attached.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]MatchItem, error) {
	if userID == uuid.Nil {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("match store is nil")
	}

	rows, err := s.store.ListForUser(ctx, userID, defaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	items := make([]MatchItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, MatchItem{
			ID:        row.ID,
			OtherUser: row.OtherUser,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

// Authorize returns the match only if userID is one of its two participants.
// Chat reads, writes and socket subscriptions all pass through here.
func (s *Service) Authorize(ctx context.Context, userID, matchID uuid.UUID) (pgrepo.MatchRecord, error) {
	if userID == uuid.Nil || matchID == uuid.Nil {
		return pgrepo.MatchRecord{}, ErrValidation
	}
	if s.store == nil {
		return pgrepo.MatchRecord{}, fmt.Errorf("match store is nil")
	}

	match, err := s.store.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return pgrepo.MatchRecord{}, ErrMatchNotFound
		}
		return pgrepo.MatchRecord{}, fmt.Errorf("get match: %w", err)
	}

	if match.UserAID != userID && match.UserBID != userID {
		return pgrepo.MatchRecord{}, ErrForbidden
	}

	return match, nil
}

// OtherParticipant returns the match participant that is not userID.
func OtherParticipant(match pgrepo.MatchRecord, userID uuid.UUID) uuid.UUID {
	if match.UserAID == userID {
		return match.UserBID
	}
	return match.UserAID
}
