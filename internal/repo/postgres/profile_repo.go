package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

type ProfileRecord struct {
	UserID    uuid.UUID
	Name      string
	Age       int
	Bio       string
	PhotoURL1 string
	PhotoURL2 string
	UpdatedAt time.Time
}

// Complete reports whether the profile can be shown in the feed: name, age and
// both photos must be present.
func (p ProfileRecord) Complete() bool {
	return p.Name != "" && p.Age > 0 && p.PhotoURL1 != "" && p.PhotoURL2 != ""
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Get(ctx context.Context, userID uuid.UUID) (ProfileRecord, error) {
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID == uuid.Nil {
		return ProfileRecord{}, fmt.Errorf("invalid user id")
	}

	var rec ProfileRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	user_id,
	COALESCE(name, ''),
	COALESCE(age, 0),
	COALESCE(bio, ''),
	COALESCE(photo_url_1, ''),
	COALESCE(photo_url_2, ''),
	updated_at
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID).Scan(
		&rec.UserID,
		&rec.Name,
		&rec.Age,
		&rec.Bio,
		&rec.PhotoURL1,
		&rec.PhotoURL2,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("get profile: %w", err)
	}

	return rec, nil
}

func (r *ProfileRepo) SaveCore(ctx context.Context, userID uuid.UUID, name string, age int, bio string) (ProfileRecord, error) {
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID == uuid.Nil || name == "" || age <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid profile payload")
	}

	var rec ProfileRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO profiles (
	user_id,
	name,
	age,
	bio,
	updated_at
) VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	name = EXCLUDED.name,
	age = EXCLUDED.age,
	bio = EXCLUDED.bio,
	updated_at = NOW()
RETURNING
	user_id,
	COALESCE(name, ''),
	COALESCE(age, 0),
	COALESCE(bio, ''),
	COALESCE(photo_url_1, ''),
	COALESCE(photo_url_2, ''),
	updated_at
`, userID, name, age, bio).Scan(
		&rec.UserID,
		&rec.Name,
		&rec.Age,
		&rec.Bio,
		&rec.PhotoURL1,
		&rec.PhotoURL2,
		&rec.UpdatedAt,
	)
	if err != nil {
		return ProfileRecord{}, fmt.Errorf("save profile core: %w", err)
	}

	return rec, nil
}

func (r *ProfileRepo) SavePhotoURL(ctx context.Context, userID uuid.UUID, slot int, url string) (ProfileRecord, error) {
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID == uuid.Nil || url == "" {
		return ProfileRecord{}, fmt.Errorf("invalid photo payload")
	}
	if slot != 1 && slot != 2 {
		return ProfileRecord{}, fmt.Errorf("photo slot must be 1 or 2")
	}

	// Column picked by slot; both branches are otherwise the same upsert.
	query := `
INSERT INTO profiles (user_id, name, photo_url_1, updated_at)
VALUES ($1, '', $2, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	photo_url_1 = EXCLUDED.photo_url_1,
	updated_at = NOW()
RETURNING
	user_id,
	COALESCE(name, ''),
	COALESCE(age, 0),
	COALESCE(bio, ''),
	COALESCE(photo_url_1, ''),
	COALESCE(photo_url_2, ''),
	updated_at
`
	if slot == 2 {
		query = `
INSERT INTO profiles (user_id, name, photo_url_2, updated_at)
VALUES ($1, '', $2, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	photo_url_2 = EXCLUDED.photo_url_2,
	updated_at = NOW()
RETURNING
	user_id,
	COALESCE(name, ''),
	COALESCE(age, 0),
	COALESCE(bio, ''),
	COALESCE(photo_url_1, ''),
	COALESCE(photo_url_2, ''),
	updated_at
`
	}

	var rec ProfileRecord
	err := r.pool.QueryRow(ctx, query, userID, url).Scan(
		&rec.UserID,
		&rec.Name,
		&rec.Age,
		&rec.Bio,
		&rec.PhotoURL1,
		&rec.PhotoURL2,
		&rec.UpdatedAt,
	)
	if err != nil {
		return ProfileRecord{}, fmt.Errorf("save profile photo url: %w", err)
	}

	return rec, nil
}
