package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SwipeRepo struct {
	pool *pgxpool.Pool
}

type SwipeRecord struct {
	SwiperID  uuid.UUID
	SwipedID  uuid.UUID
	Direction string
	CreatedAt time.Time
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

// Upsert records a directional decision. A repeat swipe on the same candidate
// overwrites the previous direction instead of stacking rows.
func (r *SwipeRepo) Upsert(ctx context.Context, tx pgx.Tx, swiperID, swipedID uuid.UUID, direction string, now time.Time) (SwipeRecord, error) {
	if swiperID == uuid.Nil || swipedID == uuid.Nil || strings.TrimSpace(direction) == "" {
		return SwipeRecord{}, fmt.Errorf("invalid swipe payload")
	}
	if tx == nil {
		return SwipeRecord{}, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec SwipeRecord
	err := tx.QueryRow(ctx, `
INSERT INTO swipes (
	swiper_id,
	swiped_id,
	direction,
	created_at
) VALUES ($1, $2, $3, $4)
ON CONFLICT (swiper_id, swiped_id) DO UPDATE SET
	direction = EXCLUDED.direction,
	created_at = EXCLUDED.created_at
RETURNING swiper_id, swiped_id, direction, created_at
`, swiperID, swipedID, strings.ToLower(strings.TrimSpace(direction)), now.UTC()).Scan(
		&rec.SwiperID,
		&rec.SwipedID,
		&rec.Direction,
		&rec.CreatedAt,
	)
	if err != nil {
		return SwipeRecord{}, fmt.Errorf("upsert swipe: %w", err)
	}

	return rec, nil
}
