package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

type MessageRecord struct {
	ID          uuid.UUID
	MatchID     uuid.UUID
	SenderID    uuid.UUID
	Text        string
	SenderName  string
	SenderPhoto string
	CreatedAt   time.Time
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// Create inserts a message and returns the server row joined with the sender
// profile. The returned row is the single source for both the HTTP response
// and the realtime broadcast, so server-computed id/created_at never diverge.
func (r *MessageRepo) Create(ctx context.Context, matchID, senderID uuid.UUID, text string) (MessageRecord, error) {
	if r.pool == nil {
		return MessageRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if matchID == uuid.Nil || senderID == uuid.Nil || text == "" {
		return MessageRecord{}, fmt.Errorf("invalid message payload")
	}

	var rec MessageRecord
	err := r.pool.QueryRow(ctx, `
WITH inserted AS (
	INSERT INTO messages (
		id,
		match_id,
		sender_id,
		message_text,
		created_at
	) VALUES ($1, $2, $3, $4, NOW())
	RETURNING id, match_id, sender_id, message_text, created_at
)
SELECT
	i.id,
	i.match_id,
	i.sender_id,
	i.message_text,
	COALESCE(p.name, ''),
	COALESCE(p.photo_url_1, ''),
	i.created_at
FROM inserted i
LEFT JOIN profiles p ON p.user_id = i.sender_id
`, uuid.New(), matchID, senderID, text).Scan(
		&rec.ID,
		&rec.MatchID,
		&rec.SenderID,
		&rec.Text,
		&rec.SenderName,
		&rec.SenderPhoto,
		&rec.CreatedAt,
	)
	if err != nil {
		return MessageRecord{}, fmt.Errorf("create message: %w", err)
	}

	return rec, nil
}

func (r *MessageRepo) ListByMatch(ctx context.Context, matchID uuid.UUID, limit int) ([]MessageRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if matchID == uuid.Nil {
		return nil, fmt.Errorf("invalid match id")
	}
	if limit <= 0 {
		limit = 500
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id,
	m.match_id,
	m.sender_id,
	m.message_text,
	COALESCE(p.name, ''),
	COALESCE(p.photo_url_1, ''),
	m.created_at
FROM messages m
LEFT JOIN profiles p ON p.user_id = m.sender_id
WHERE m.match_id = $1
ORDER BY m.created_at ASC, m.id ASC
LIMIT $2
`, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	items := make([]MessageRecord, 0, 64)
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.MatchID,
			&rec.SenderID,
			&rec.Text,
			&rec.SenderName,
			&rec.SenderPhoto,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate messages: %w", rows.Err())
	}

	return items, nil
}
