package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepo struct {
	pool *pgxpool.Pool
}

type MatchRecord struct {
	ID        uuid.UUID
	UserAID   uuid.UUID
	UserBID   uuid.UUID
	CreatedAt time.Time
}

// MatchWithProfileRecord is a match row joined with the other participant's
// profile, from the perspective of the querying user.
type MatchWithProfileRecord struct {
	ID        uuid.UUID
	OtherUser ProfileRecord
	CreatedAt time.Time
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// CreateIfMutualRight inserts the symmetric match row when the reciprocal
// right-swipe already exists. Runs inside the swipe transaction so the swipe
// and the match it completes commit together.
func (r *MatchRepo) CreateIfMutualRight(ctx context.Context, tx pgx.Tx, userID, targetID uuid.UUID) (uuid.UUID, bool, error) {
	if userID == uuid.Nil || targetID == uuid.Nil {
		return uuid.Nil, false, fmt.Errorf("invalid match payload")
	}
	if tx == nil {
		return uuid.Nil, false, fmt.Errorf("transaction is required")
	}

	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM swipes
WHERE swiper_id = $1 AND swiped_id = $2 AND direction = 'right'
LIMIT 1
`, targetID, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("lookup reciprocal right swipe: %w", err)
	}

	userA, userB := orderPair(userID, targetID)

	var matchID uuid.UUID
	err = tx.QueryRow(ctx, `
INSERT INTO matches (
	id,
	user_a_id,
	user_b_id,
	created_at
) VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_a_id, user_b_id) DO NOTHING
RETURNING id
`, uuid.New(), userA, userB).Scan(&matchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Match already existed; fetch its id so the caller can still route to chat.
			existing, lookupErr := r.getByPair(ctx, tx, userA, userB)
			if lookupErr != nil {
				return uuid.Nil, false, lookupErr
			}
			return existing, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("create match: %w", err)
	}

	return matchID, true, nil
}

func (r *MatchRepo) getByPair(ctx context.Context, tx pgx.Tx, userA, userB uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `
SELECT id
FROM matches
WHERE user_a_id = $1 AND user_b_id = $2
LIMIT 1
`, userA, userB).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrMatchNotFound
		}
		return uuid.Nil, fmt.Errorf("get match by pair: %w", err)
	}
	return id, nil
}

func (r *MatchRepo) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]MatchWithProfileRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id,
	p.user_id,
	COALESCE(p.name, ''),
	COALESCE(p.age, 0),
	COALESCE(p.bio, ''),
	COALESCE(p.photo_url_1, ''),
	COALESCE(p.photo_url_2, ''),
	m.created_at
FROM matches m
JOIN profiles p ON p.user_id = CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END
WHERE m.user_a_id = $1 OR m.user_b_id = $1
ORDER BY m.created_at DESC, m.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	items := make([]MatchWithProfileRecord, 0, limit)
	for rows.Next() {
		var item MatchWithProfileRecord
		if err := rows.Scan(
			&item.ID,
			&item.OtherUser.UserID,
			&item.OtherUser.Name,
			&item.OtherUser.Age,
			&item.OtherUser.Bio,
			&item.OtherUser.PhotoURL1,
			&item.OtherUser.PhotoURL2,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matches: %w", rows.Err())
	}

	return items, nil
}

func (r *MatchRepo) GetByID(ctx context.Context, matchID uuid.UUID) (MatchRecord, error) {
	if r.pool == nil {
		return MatchRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if matchID == uuid.Nil {
		return MatchRecord{}, fmt.Errorf("invalid match id")
	}

	var rec MatchRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_a_id, user_b_id, created_at
FROM matches
WHERE id = $1
LIMIT 1
`, matchID).Scan(
		&rec.ID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MatchRecord{}, ErrMatchNotFound
		}
		return MatchRecord{}, fmt.Errorf("get match: %w", err)
	}

	return rec, nil
}

func orderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}
