package sharing

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/globetrotter-app/globetrotter-backend/pkg/config"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/globetrotter-app/globetrotter-backend/pkg/enums"
	pkgerrors "github.com/globetrotter-app/globetrotter-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubTripRepo struct {
	trips   map[string]*models.Trip
	updates int
}

func (s *stubTripRepo) FindBySlug(_ context.Context, slug string) (*models.Trip, error) {
	if trip, ok := s.trips[slug]; ok {
		return trip, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTripRepo) Update(_ context.Context, trip *models.Trip) error {
	s.updates++
	s.trips[trip.Slug] = trip
	return nil
}

type shareFixture struct {
	svc   *service
	repo  *stubTripRepo
	owner uuid.UUID
	trip  *models.Trip
}

func newShareFixture(t *testing.T) *shareFixture {
	t.Helper()

	owner := uuid.New()
	trip := &models.Trip{
		ID:         uuid.New(),
		Slug:       "rome-trip",
		OwnerID:    owner,
		Visibility: enums.TripVisibilityPrivate,
	}
	repo := &stubTripRepo{trips: map[string]*models.Trip{"rome-trip": trip}}

	svc, err := NewService(repo, config.ShareConfig{PublicBaseURL: "https://globetrotter.example"})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	impl := svc.(*service)
	counter := 0
	impl.mintToken = func() (string, error) {
		counter++
		return fmt.Sprintf("token-%d", counter), nil
	}
	return &shareFixture{svc: impl, repo: repo, owner: owner, trip: trip}
}

func boolPtr(v bool) *bool { return &v }

func TestUpdateMintsTokenOnFirstActivation(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	settings, err := f.svc.Update(ctx, f.owner, "rome-trip", UpdateShareInput{IsPublic: boolPtr(true)})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !settings.IsPublic {
		t.Fatal("expected public after activation")
	}
	if settings.ShareURL != "https://globetrotter.example/trips/shared/token-1" {
		t.Fatalf("unexpected share url: %s", settings.ShareURL)
	}
	if f.trip.ShareToken == nil || *f.trip.ShareToken != "token-1" {
		t.Fatal("expected token persisted on trip")
	}
}

func TestToggleVisibilityReusesToken(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Update(ctx, f.owner, "rome-trip", UpdateShareInput{IsPublic: boolPtr(true)}); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if _, err := f.svc.Update(ctx, f.owner, "rome-trip", UpdateShareInput{IsPublic: boolPtr(false)}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	settings, err := f.svc.Update(ctx, f.owner, "rome-trip", UpdateShareInput{IsPublic: boolPtr(true)})
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}

	if !strings.HasSuffix(settings.ShareURL, "token-1") {
		t.Fatalf("reactivation must reuse the original token, got %s", settings.ShareURL)
	}
}

func TestExplicitRotationReplacesToken(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Update(ctx, f.owner, "rome-trip", UpdateShareInput{IsPublic: boolPtr(true)}); err != nil {
		t.Fatalf("activate: %v", err)
	}
	settings, err := f.svc.Update(ctx, f.owner, "rome-trip", UpdateShareInput{RotateToken: true})
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if !strings.HasSuffix(settings.ShareURL, "token-2") {
		t.Fatalf("expected rotated token, got %s", settings.ShareURL)
	}
}

func TestRotateWithoutTokenDoesNothing(t *testing.T) {
	f := newShareFixture(t)

	settings, err := f.svc.Update(context.Background(), f.owner, "rome-trip", UpdateShareInput{RotateToken: true})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if settings.ShareURL != "" {
		t.Fatalf("no token should exist for a never-shared private trip, got %s", settings.ShareURL)
	}
}

func TestUpdateSetsAndClearsExpiry(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()
	expiry := time.Now().Add(48 * time.Hour)

	settings, err := f.svc.Update(ctx, f.owner, "rome-trip", UpdateShareInput{
		IsPublic:  boolPtr(true),
		SetExpiry: true,
		ExpiresAt: &expiry,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if settings.ExpiresAt == nil || !settings.ExpiresAt.Equal(expiry) {
		t.Fatalf("expected expiry %s, got %v", expiry, settings.ExpiresAt)
	}

	settings, err = f.svc.Update(ctx, f.owner, "rome-trip", UpdateShareInput{SetExpiry: true})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if settings.ExpiresAt != nil {
		t.Fatalf("expected expiry cleared, got %v", settings.ExpiresAt)
	}
}

func TestShareSettingsHiddenFromNonOwner(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, uuid.New(), "rome-trip")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for non-owner, got %v", err)
	}

	_, err = f.svc.Update(ctx, uuid.New(), "rome-trip", UpdateShareInput{IsPublic: boolPtr(true)})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for non-owner update, got %v", err)
	}
	if f.repo.updates != 0 {
		t.Fatal("rejected update must not persist")
	}
}

func TestGetReturnsCurrentSettings(t *testing.T) {
	f := newShareFixture(t)
	token := "existing-token"
	f.trip.ShareToken = &token
	f.trip.Visibility = enums.TripVisibilityPublic
	f.trip.AllowCopy = true

	settings, err := f.svc.Get(context.Background(), f.owner, "rome-trip")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !settings.IsPublic || !settings.AllowCopy {
		t.Fatalf("unexpected settings: %+v", settings)
	}
	if settings.ShareURL != "https://globetrotter.example/trips/shared/existing-token" {
		t.Fatalf("unexpected share url: %s", settings.ShareURL)
	}
}
