package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	pgrepo "github.com/rvconnect/backend/internal/repo/postgres"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrInvalidSlot = errors.New("photo slot must be 1 or 2")
	ErrTooLarge    = errors.New("photo is too large")
)

const (
	MaxPhotoBytes = 5 << 20

	slotCount = 2
)

type Store interface {
	SavePhotoURL(ctx context.Context, userID uuid.UUID, slot int, url string) (pgrepo.ProfileRecord, error)
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutPhoto(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PhotoURL(key string) string
	Delete(ctx context.Context, key string) error
}

type Service struct {
	store   Store
	storage ObjectStorage
	now     func() time.Time
}

// Photo is the stored result of an upload: the slot it landed in and the
// profile state after the write.
type Photo struct {
	Slot    int
	URL     string
	Profile pgrepo.ProfileRecord
}

func NewService(store Store, storage ObjectStorage) *Service {
	return &Service{
		store:   store,
		storage: storage,
		now:     time.Now,
	}
}

// UploadPhoto stores the image and binds its URL to one of the two profile
// slots. Re-uploading a slot replaces the previous URL; the old object is left
// behind for the janitor rather than deleted inline.
func (s *Service) UploadPhoto(ctx context.Context, userID uuid.UUID, slot int, fileName, contentType string, body io.Reader, size int64) (Photo, error) {
	if userID == uuid.Nil || body == nil || size <= 0 {
		return Photo{}, ErrValidation
	}
	if slot < 1 || slot > slotCount {
		return Photo{}, ErrInvalidSlot
	}
	if size > MaxPhotoBytes {
		return Photo{}, ErrTooLarge
	}
	if s.store == nil || s.storage == nil {
		return Photo{}, fmt.Errorf("media dependencies are not configured")
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return Photo{}, fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey, err := buildPhotoObjectKey(userID, slot, fileName, s.now())
	if err != nil {
		return Photo{}, fmt.Errorf("build object key: %w", err)
	}

	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}

	if err := s.storage.PutPhoto(ctx, objectKey, body, size, contentType); err != nil {
		return Photo{}, fmt.Errorf("put object: %w", err)
	}

	url := s.storage.PhotoURL(objectKey)
	profile, err := s.store.SavePhotoURL(ctx, userID, slot, url)
	if err != nil {
		_ = s.storage.Delete(ctx, objectKey)
		return Photo{}, fmt.Errorf("save photo url: %w", err)
	}

	return Photo{
		Slot:    slot,
		URL:     url,
		Profile: profile,
	}, nil
}

func buildPhotoObjectKey(userID uuid.UUID, slot int, fileName string, now time.Time) (string, error) {
	rnd := make([]byte, 8)
	if _, err := rand.Read(rnd); err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		ext = ".bin"
	}

	stamp := now.UTC().Format("20060102T150405")
	return fmt.Sprintf("users/%s/photos/slot%d_%s_%s%s", userID, slot, stamp, hex.EncodeToString(rnd), ext), nil
}
