package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	pgrepo "github.com/rvconnect/backend/internal/repo/postgres"
)

const (
	MinAge    = 18
	MaxAge    = 100
	MaxBioLen = 500
)

var (
	ErrValidation      = errors.New("invalid profile input")
	ErrProfileNotFound = errors.New("profile not found")
)

type Store interface {
	Get(ctx context.Context, userID uuid.UUID) (pgrepo.ProfileRecord, error)
	SaveCore(ctx context.Context, userID uuid.UUID, name string, age int, bio string) (pgrepo.ProfileRecord, error)
}

// Profile is the service-level view of a user's public card. Complete follows
// the same rule the feed applies: name, age and both photos present.
type Profile struct {
	UserID    uuid.UUID
	Name      string
	Age       int
	Bio       string
	PhotoURL1 string
	PhotoURL2 string
	Complete  bool
	UpdatedAt time.Time
}

type UpdateInput struct {
	Name string
	Age  int
	Bio  string
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns the user's profile. A user that has never saved a profile gets
// an empty, incomplete one rather than an error: the client treats that as
// "finish setup".
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (Profile, error) {
	if userID == uuid.Nil {
		return Profile{}, ErrValidation
	}
	if s.store == nil {
		return Profile{}, fmt.Errorf("profile store is not configured")
	}

	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return Profile{UserID: userID}, nil
		}
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return fromRecord(rec), nil
}

func (s *Service) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (Profile, error) {
	if userID == uuid.Nil {
		return Profile{}, ErrValidation
	}
	if s.store == nil {
		return Profile{}, fmt.Errorf("profile store is not configured")
	}

	name := strings.TrimSpace(input.Name)
	bio := strings.TrimSpace(input.Bio)
	if name == "" {
		return Profile{}, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if input.Age < MinAge || input.Age > MaxAge {
		return Profile{}, fmt.Errorf("age must be between %d and %d: %w", MinAge, MaxAge, ErrValidation)
	}
	if len([]rune(bio)) > MaxBioLen {
		return Profile{}, fmt.Errorf("bio is too long: %w", ErrValidation)
	}

	rec, err := s.store.SaveCore(ctx, userID, name, input.Age, bio)
	if err != nil {
		return Profile{}, fmt.Errorf("save profile: %w", err)
	}

	return fromRecord(rec), nil
}

func fromRecord(rec pgrepo.ProfileRecord) Profile {
	return Profile{
		UserID:    rec.UserID,
		Name:      rec.Name,
		Age:       rec.Age,
		Bio:       rec.Bio,
		PhotoURL1: rec.PhotoURL1,
		PhotoURL2: rec.PhotoURL2,
		Complete:  rec.Complete(),
		UpdatedAt: rec.UpdatedAt,
	}
}
