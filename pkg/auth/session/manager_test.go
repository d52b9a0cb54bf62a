package session

import (
	"context"
	"testing"
	"time"

	"github.com/globetrotter-app/globetrotter-backend/pkg/config"
	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		values: map[string]string{},
		ttls:   map[string]time.Duration{},
	}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
		delete(f.ttls, k)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string {
	return "session:access:" + accessID
}

func newTestManager(store *fakeStore) *Manager {
	return &Manager{
		store: store,
		keyer: fakeKeyer{},
		ttl:   time.Hour,
	}
}

func TestNewManagerValidatesTTL(t *testing.T) {
	if _, err := NewManager(nil, config.JWTConfig{}); err == nil {
		t.Fatal("expected error for nil redis client")
	}
}

func TestGenerateStoresToken(t *testing.T) {
	store := newFakeStore()
	mgr := newTestManager(store)

	token, err := mgr.Generate(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty refresh token")
	}
	if got := store.values["session:access:access-1"]; got != token {
		t.Fatalf("stored token mismatch: got %q want %q", got, token)
	}
	if store.ttls["session:access:access-1"] != time.Hour {
		t.Fatalf("unexpected ttl: %s", store.ttls["session:access:access-1"])
	}
}

func TestRotateIssuesNewPairAndInvalidatesOld(t *testing.T) {
	store := newFakeStore()
	mgr := newTestManager(store)
	ctx := context.Background()

	oldToken, err := mgr.Generate(ctx, "access-old")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	newAccessID, newToken, err := mgr.Rotate(ctx, "access-old", oldToken)
	if err != nil {
		t.Fatalf("Rotate returned error: %v", err)
	}
	if newAccessID == "" || newToken == "" {
		t.Fatal("expected new access id and token")
	}
	if newToken == oldToken {
		t.Fatal("expected rotated token to differ")
	}
	if _, ok := store.values["session:access:access-old"]; ok {
		t.Fatal("expected old session to be deleted")
	}
	if store.values["session:access:"+newAccessID] != newToken {
		t.Fatal("expected new session to be stored")
	}
}

func TestRotateRejectsMismatchedToken(t *testing.T) {
	store := newFakeStore()
	mgr := newTestManager(store)
	ctx := context.Background()

	if _, err := mgr.Generate(ctx, "access-1"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, _, err := mgr.Rotate(ctx, "access-1", "forged-token"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRotateUnknownSession(t *testing.T) {
	mgr := newTestManager(newFakeStore())
	if _, _, err := mgr.Rotate(context.Background(), "missing", "whatever"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRevokeAndHasSession(t *testing.T) {
	store := newFakeStore()
	mgr := newTestManager(store)
	ctx := context.Background()

	if _, err := mgr.Generate(ctx, "access-1"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	has, err := mgr.HasSession(ctx, "access-1")
	if err != nil {
		t.Fatalf("HasSession returned error: %v", err)
	}
	if !has {
		t.Fatal("expected active session")
	}

	if err := mgr.Revoke(ctx, "access-1"); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	has, err = mgr.HasSession(ctx, "access-1")
	if err != nil {
		t.Fatalf("HasSession returned error: %v", err)
	}
	if has {
		t.Fatal("expected session to be gone after revoke")
	}
}
