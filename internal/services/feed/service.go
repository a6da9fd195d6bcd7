package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	pgrepo "github.com/rvconnect/backend/internal/repo/postgres"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

var ErrValidation = errors.New("validation error")

type Repository interface {
	ListCandidates(ctx context.Context, viewerID uuid.UUID, limit int) ([]pgrepo.ProfileRecord, error)
}

type Card struct {
	UserID    uuid.UUID
	Name      string
	Age       int
	Bio       string
	PhotoURL1 string
	PhotoURL2 string
	UpdatedAt time.Time
}

type Service struct {
	repo     Repository
	pageSize int
}

func NewService(repo Repository, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return &Service{
		repo:     repo,
		pageSize: pageSize,
	}
}

// List returns up to one page of complete profiles the viewer has not swiped
// on yet. An empty slice means the viewer has worked through everyone.
func (s *Service) List(ctx context.Context, viewerID uuid.UUID) ([]Card, error) {
	if viewerID == uuid.Nil {
		return nil, ErrValidation
	}
	if s.repo == nil {
		return nil, fmt.Errorf("feed repository is nil")
	}

	rows, err := s.repo.ListCandidates(ctx, viewerID, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	cards := make([]Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, Card{
			UserID:    row.UserID,
			Name:      row.Name,
			Age:       row.Age,
			Bio:       row.Bio,
			PhotoURL1: row.PhotoURL1,
			PhotoURL2: row.PhotoURL2,
			UpdatedAt: row.UpdatedAt,
		})
	}

	return cards, nil
}
