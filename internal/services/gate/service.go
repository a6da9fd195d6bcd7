package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	pgrepo "github.com/rvconnect/backend/internal/repo/postgres"
)

const (
	ScreenProfileSetup = "profile-setup"
	ScreenSwipe        = "swipe"
)

var ErrValidation = errors.New("validation error")

type ProfileStore interface {
	Get(ctx context.Context, userID uuid.UUID) (pgrepo.ProfileRecord, error)
}

type State struct {
	Screen          string
	ProfileComplete bool
}

// Service decides where a freshly authenticated client should land: profile
// setup until the profile is complete, the swipe deck afterwards.
type Service struct {
	profiles ProfileStore
}

func NewService(profiles ProfileStore) *Service {
	return &Service{profiles: profiles}
}

func (s *Service) Resolve(ctx context.Context, userID uuid.UUID) (State, error) {
	if userID == uuid.Nil {
		return State{}, ErrValidation
	}
	if s.profiles == nil {
		return State{}, fmt.Errorf("profile store is nil")
	}

	rec, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return State{Screen: ScreenProfileSetup}, nil
		}
		return State{}, fmt.Errorf("get profile: %w", err)
	}

	if !rec.Complete() {
		return State{Screen: ScreenProfileSetup}, nil
	}

	return State{Screen: ScreenSwipe, ProfileComplete: true}, nil
}
