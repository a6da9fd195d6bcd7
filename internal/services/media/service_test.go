package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	pgrepo "github.com/rvconnect/backend/internal/repo/postgres"
)

type fakeStore struct {
	records map[uuid.UUID]pgrepo.ProfileRecord
	fail    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[uuid.UUID]pgrepo.ProfileRecord)}
}

func (f *fakeStore) SavePhotoURL(_ context.Context, userID uuid.UUID, slot int, url string) (pgrepo.ProfileRecord, error) {
	if f.fail != nil {
		return pgrepo.ProfileRecord{}, f.fail
	}

	rec := f.records[userID]
	rec.UserID = userID
	if slot == 1 {
		rec.PhotoURL1 = url
	} else {
		rec.PhotoURL2 = url
	}
	rec.UpdatedAt = time.Now().UTC()
	f.records[userID] = rec
	return rec, nil
}

type fakeStorage struct {
	putKeys     []string
	deleteCalls int
}

func (f *fakeStorage) EnsureBucket(_ context.Context) error {
	return nil
}

func (f *fakeStorage) PutPhoto(_ context.Context, key string, _ io.Reader, _ int64, _ string) error {
	f.putKeys = append(f.putKeys, key)
	return nil
}

func (f *fakeStorage) PhotoURL(key string) string {
	return "https://cdn.local/photos/" + key
}

func (f *fakeStorage) Delete(_ context.Context, _ string) error {
	f.deleteCalls++
	return nil
}

func TestUploadPhotoFillsSlots(t *testing.T) {
	store := newFakeStore()
	storage := &fakeStorage{}
	svc := NewService(store, storage)
	userID := uuid.New()

	first, err := svc.UploadPhoto(context.Background(), userID, 1, "selfie.jpg", "image/jpeg", strings.NewReader("abc"), 3)
	if err != nil {
		t.Fatalf("upload slot 1: %v", err)
	}
	if first.Slot != 1 || first.URL == "" {
		t.Fatalf("unexpected slot 1 result: %+v", first)
	}

	second, err := svc.UploadPhoto(context.Background(), userID, 2, "group.png", "image/png", strings.NewReader("abc"), 3)
	if err != nil {
		t.Fatalf("upload slot 2: %v", err)
	}
	if second.Profile.PhotoURL1 != first.URL {
		t.Fatalf("slot 2 upload must not touch slot 1: got %q want %q", second.Profile.PhotoURL1, first.URL)
	}
	if second.Profile.PhotoURL2 != second.URL {
		t.Fatalf("slot 2 url mismatch: got %q want %q", second.Profile.PhotoURL2, second.URL)
	}
}

func TestUploadPhotoReplacesSlot(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeStorage{})
	userID := uuid.New()

	first, err := svc.UploadPhoto(context.Background(), userID, 1, "a.jpg", "image/jpeg", strings.NewReader("abc"), 3)
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	second, err := svc.UploadPhoto(context.Background(), userID, 1, "b.jpg", "image/jpeg", strings.NewReader("abc"), 3)
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if second.URL == first.URL {
		t.Fatal("replacement upload must produce a fresh object key")
	}
	if store.records[userID].PhotoURL1 != second.URL {
		t.Fatal("slot must hold the latest url")
	}
}

func TestUploadPhotoRejectsBadInput(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeStorage{})
	userID := uuid.New()

	if _, err := svc.UploadPhoto(context.Background(), userID, 3, "a.jpg", "image/jpeg", strings.NewReader("abc"), 3); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("slot 3 error = %v, want ErrInvalidSlot", err)
	}
	if _, err := svc.UploadPhoto(context.Background(), userID, 1, "a.jpg", "image/jpeg", strings.NewReader("abc"), MaxPhotoBytes+1); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("oversized error = %v, want ErrTooLarge", err)
	}
	if _, err := svc.UploadPhoto(context.Background(), uuid.Nil, 1, "a.jpg", "image/jpeg", strings.NewReader("abc"), 3); !errors.Is(err, ErrValidation) {
		t.Fatalf("nil user error = %v, want ErrValidation", err)
	}
}

func TestUploadPhotoCleansUpOnStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.fail = errors.New("db down")
	storage := &fakeStorage{}
	svc := NewService(store, storage)

	_, err := svc.UploadPhoto(context.Background(), uuid.New(), 1, "a.jpg", "image/jpeg", strings.NewReader("abc"), 3)
	if err == nil {
		t.Fatal("expected error when store fails")
	}
	if storage.deleteCalls != 1 {
		t.Fatalf("expected orphan object cleanup, delete calls = %d", storage.deleteCalls)
	}
}
