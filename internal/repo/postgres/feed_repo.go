package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FeedRepo struct {
	pool *pgxpool.Pool
}

func NewFeedRepo(pool *pgxpool.Pool) *FeedRepo {
	return &FeedRepo{pool: pool}
}

// ListCandidates returns complete, confirmed profiles the viewer has not
// swiped on yet, excluding the viewer. No ranking; store order.
func (r *FeedRepo) ListCandidates(ctx context.Context, viewerID uuid.UUID, limit int) ([]ProfileRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if viewerID == uuid.Nil {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	p.user_id,
	COALESCE(p.name, ''),
	COALESCE(p.age, 0),
	COALESCE(p.bio, ''),
	COALESCE(p.photo_url_1, ''),
	COALESCE(p.photo_url_2, ''),
	p.updated_at
FROM profiles p
JOIN users u ON u.id = p.user_id
WHERE
	p.user_id <> $1
	AND u.confirmed = TRUE
	AND COALESCE(p.name, '') <> ''
	AND COALESCE(p.age, 0) > 0
	AND COALESCE(p.photo_url_1, '') <> ''
	AND COALESCE(p.photo_url_2, '') <> ''
	AND NOT EXISTS (
		SELECT 1
		FROM swipes s
		WHERE s.swiper_id = $1 AND s.swiped_id = p.user_id
	)
LIMIT $2
`, viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list feed candidates: %w", err)
	}
	defer rows.Close()

	items := make([]ProfileRecord, 0, limit)
	for rows.Next() {
		var rec ProfileRecord
		if err := rows.Scan(
			&rec.UserID,
			&rec.Name,
			&rec.Age,
			&rec.Bio,
			&rec.PhotoURL1,
			&rec.PhotoURL2,
			&rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan feed candidate: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate feed candidates: %w", rows.Err())
	}

	return items, nil
}
