package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserRepo struct {
	pool *pgxpool.Pool
}

type UserRecord struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Confirmed    bool
	CreatedAt    time.Time
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, email, passwordHash string, now time.Time) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(email) == "" || strings.TrimSpace(passwordHash) == "" {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (
	id,
	email,
	password_hash,
	confirmed,
	created_at
) VALUES ($1, $2, $3, FALSE, $4)
RETURNING id, email, password_hash, confirmed, created_at
`, uuid.New(), strings.ToLower(strings.TrimSpace(email)), passwordHash, now.UTC()).Scan(
		&rec.ID,
		&rec.Email,
		&rec.PasswordHash,
		&rec.Confirmed,
		&rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return UserRecord{}, ErrEmailTaken
		}
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}

	return rec, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, confirmed, created_at
FROM users
WHERE email = $1
LIMIT 1
`, strings.ToLower(strings.TrimSpace(email))).Scan(
		&rec.ID,
		&rec.Email,
		&rec.PasswordHash,
		&rec.Confirmed,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by email: %w", err)
	}

	return rec, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID uuid.UUID) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID == uuid.Nil {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, confirmed, created_at
FROM users
WHERE id = $1
LIMIT 1
`, userID).Scan(
		&rec.ID,
		&rec.Email,
		&rec.PasswordHash,
		&rec.Confirmed,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by id: %w", err)
	}

	return rec, nil
}

func (r *UserRepo) MarkConfirmed(ctx context.Context, userID uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID == uuid.Nil {
		return fmt.Errorf("invalid user id")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE users
SET confirmed = TRUE
WHERE id = $1
`, userID)
	if err != nil {
		return fmt.Errorf("mark user confirmed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepo) DeleteUnconfirmedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM users
WHERE confirmed = FALSE AND created_at < $1
`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete unconfirmed users: %w", err)
	}

	return result.RowsAffected(), nil
}
