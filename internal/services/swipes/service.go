package swipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgrepo "github.com/rvconnect/backend/internal/repo/postgres"
)

const (
	DirectionLeft  = "left"
	DirectionRight = "right"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrUnsupportedDecision = errors.New("unsupported swipe direction")
)

type SwipeStore interface {
	Upsert(ctx context.Context, tx pgx.Tx, swiperID, swipedID uuid.UUID, direction string, now time.Time) (pgrepo.SwipeRecord, error)
}

type MatchStore interface {
	CreateIfMutualRight(ctx context.Context, tx pgx.Tx, userID, targetID uuid.UUID) (uuid.UUID, bool, error)
}

type SwipeResult struct {
	Direction    string
	MatchCreated bool
	MatchID      uuid.UUID
}

type Service struct {
	pool       *pgxpool.Pool
	swipeStore SwipeStore
	matchStore MatchStore
	now        func() time.Time
	runTx      func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool       *pgxpool.Pool
	SwipeStore SwipeStore
	MatchStore MatchStore
}

func NewService(deps Dependencies) *Service {
	s := &Service{
		pool:       deps.Pool,
		swipeStore: deps.SwipeStore,
		matchStore: deps.MatchStore,
		now:        time.Now,
	}
	s.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return pgrepo.WithTx(ctx, s.pool, fn)
	}
	return s
}

// Swipe records a directional decision and, on a reciprocal right-swipe,
// creates the match in the same transaction. MatchID is set whenever the pair
// is mutual, even if the match row already existed from an earlier pass.
func (s *Service) Swipe(ctx context.Context, userID, targetID uuid.UUID, direction string) (SwipeResult, error) {
	if userID == uuid.Nil || targetID == uuid.Nil || userID == targetID {
		return SwipeResult{}, ErrValidation
	}

	normalized, err := normalizeDirection(direction)
	if err != nil {
		return SwipeResult{}, err
	}

	if s.swipeStore == nil || s.matchStore == nil || s.runTx == nil {
		return SwipeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	now := s.now().UTC()

	result := SwipeResult{Direction: normalized}
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if _, err := s.swipeStore.Upsert(txCtx, tx, userID, targetID, normalized, now); err != nil {
			return err
		}
		if normalized != DirectionRight {
			return nil
		}

		matchID, created, err := s.matchStore.CreateIfMutualRight(txCtx, tx, userID, targetID)
		if err != nil {
			return err
		}
		if matchID != uuid.Nil {
			result.MatchID = matchID
			result.MatchCreated = created
		}
		return nil
	}); err != nil {
		return SwipeResult{}, err
	}

	return result, nil
}

func normalizeDirection(direction string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case DirectionLeft:
		return DirectionLeft, nil
	case DirectionRight:
		return DirectionRight, nil
	default:
		return "", ErrUnsupportedDecision
	}
}
