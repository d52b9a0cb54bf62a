package trips

import (
	"context"
	"testing"
	"time"

	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/globetrotter-app/globetrotter-backend/pkg/enums"
	pkgerrors "github.com/globetrotter-app/globetrotter-backend/pkg/errors"
	"github.com/globetrotter-app/globetrotter-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubTripRepo struct {
	bySlug   map[string]*models.Trip
	byToken  map[string]*models.Trip
	public   []models.Trip
	updated  *models.Trip
	deleted  []uuid.UUID
	lastClip int
}

func newStubTripRepo() *stubTripRepo {
	return &stubTripRepo{
		bySlug:  map[string]*models.Trip{},
		byToken: map[string]*models.Trip{},
	}
}

func (s *stubTripRepo) add(trip *models.Trip) {
	s.bySlug[trip.Slug] = trip
	if trip.ShareToken != nil {
		s.byToken[*trip.ShareToken] = trip
	}
}

func (s *stubTripRepo) Create(_ context.Context, trip *models.Trip) (*models.Trip, error) {
	trip.ID = uuid.New()
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt
	s.add(trip)
	return trip, nil
}

func (s *stubTripRepo) FindBySlug(_ context.Context, slug string) (*models.Trip, error) {
	if trip, ok := s.bySlug[slug]; ok {
		return trip, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTripRepo) FindByShareToken(_ context.Context, token string) (*models.Trip, error) {
	if trip, ok := s.byToken[token]; ok {
		return trip, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTripRepo) Update(_ context.Context, trip *models.Trip) error {
	s.updated = trip
	return nil
}

func (s *stubTripRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubTripRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]models.Trip, error) {
	var rows []models.Trip
	for _, trip := range s.bySlug {
		if trip.OwnerID == userID {
			rows = append(rows, *trip)
		}
	}
	return rows, nil
}

func (s *stubTripRepo) ListPublic(_ context.Context, limit int, _ *pagination.Cursor) ([]models.Trip, error) {
	s.lastClip = limit
	if len(s.public) > limit {
		return s.public[:limit], nil
	}
	return s.public, nil
}

type stubMemberLookup struct {
	members map[uuid.UUID]bool
}

func (s *stubMemberLookup) HasMember(_ context.Context, _ uuid.UUID, userID uuid.UUID) (bool, error) {
	return s.members[userID], nil
}

type tripFixture struct {
	svc     *service
	repo    *stubTripRepo
	members *stubMemberLookup
	owner   uuid.UUID
	now     time.Time
}

func newTripFixture(t *testing.T) *tripFixture {
	t.Helper()

	repo := newStubTripRepo()
	members := &stubMemberLookup{members: map[uuid.UUID]bool{}}
	svc, err := NewService(repo, members)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	impl := svc.(*service)
	impl.now = func() time.Time { return now }

	return &tripFixture{
		svc:     impl,
		repo:    repo,
		members: members,
		owner:   uuid.New(),
		now:     now,
	}
}

func (f *tripFixture) seedTrip(slug string, visibility enums.TripVisibility) *models.Trip {
	trip := &models.Trip{
		ID:          uuid.New(),
		Slug:        slug,
		OwnerID:     f.owner,
		Name:        "Summer in Rome",
		Destination: "Rome",
		Visibility:  visibility,
		CreatedAt:   f.now.Add(-24 * time.Hour),
		UpdatedAt:   f.now.Add(-24 * time.Hour),
	}
	f.repo.add(trip)
	return trip
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error with code %s, got %v", code, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s", code, typed.Code())
	}
}

func TestCreateStartsPrivate(t *testing.T) {
	f := newTripFixture(t)

	dto, err := f.svc.Create(context.Background(), f.owner, CreateTripInput{
		Name:        "Summer in Rome",
		Destination: "Rome",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if dto.Visibility != enums.TripVisibilityPrivate {
		t.Fatalf("new trip should be private, got %s", dto.Visibility)
	}
	if dto.Slug == "" {
		t.Fatal("expected a generated slug")
	}
}

func TestCreateRejectsInvertedDates(t *testing.T) {
	f := newTripFixture(t)

	start := f.now
	end := f.now.Add(-48 * time.Hour)
	_, err := f.svc.Create(context.Background(), f.owner, CreateTripInput{
		Name:        "Backwards",
		Destination: "Nowhere",
		StartDate:   &start,
		EndDate:     &end,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestGetBySlugHidesPrivateTrips(t *testing.T) {
	f := newTripFixture(t)
	f.seedTrip("rome-trip", enums.TripVisibilityPrivate)

	// Strangers and anonymous viewers get the same not-found answer, so the
	// response never reveals whether the slug exists.
	if _, err := f.svc.GetBySlug(context.Background(), uuid.New(), "rome-trip"); err == nil {
		t.Fatal("expected stranger to be denied")
	} else {
		assertCode(t, err, pkgerrors.CodeNotFound)
	}

	if _, err := f.svc.GetBySlug(context.Background(), uuid.Nil, "rome-trip"); err == nil {
		t.Fatal("expected anonymous viewer to be denied")
	} else {
		assertCode(t, err, pkgerrors.CodeNotFound)
	}

	if _, err := f.svc.GetBySlug(context.Background(), uuid.Nil, "no-such-trip"); err == nil {
		t.Fatal("expected missing slug to be denied")
	} else {
		assertCode(t, err, pkgerrors.CodeNotFound)
	}
}

func TestGetBySlugAllowsOwnerMemberAndPublic(t *testing.T) {
	f := newTripFixture(t)
	trip := f.seedTrip("rome-trip", enums.TripVisibilityPrivate)

	if _, err := f.svc.GetBySlug(context.Background(), f.owner, "rome-trip"); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}

	member := uuid.New()
	f.members.members[member] = true
	if _, err := f.svc.GetBySlug(context.Background(), member, "rome-trip"); err != nil {
		t.Fatalf("member read failed: %v", err)
	}

	trip.Visibility = enums.TripVisibilityPublic
	if _, err := f.svc.GetBySlug(context.Background(), uuid.Nil, "rome-trip"); err != nil {
		t.Fatalf("anonymous read of public trip failed: %v", err)
	}
}

func TestGetBySlugTreatsLapsedShareAsPrivate(t *testing.T) {
	f := newTripFixture(t)
	trip := f.seedTrip("rome-trip", enums.TripVisibilityPublic)
	expired := f.now.Add(-time.Hour)
	trip.ShareExpiresAt = &expired

	_, err := f.svc.GetBySlug(context.Background(), uuid.New(), "rome-trip")
	assertCode(t, err, pkgerrors.CodeNotFound)

	// Members admitted before expiry keep access.
	member := uuid.New()
	f.members.members[member] = true
	if _, err := f.svc.GetBySlug(context.Background(), member, "rome-trip"); err != nil {
		t.Fatalf("member read after expiry failed: %v", err)
	}
}

func TestGetByShareTokenIgnoresVisibilityFlag(t *testing.T) {
	f := newTripFixture(t)
	trip := f.seedTrip("rome-trip", enums.TripVisibilityPrivate)
	token := "tok_abc123"
	trip.ShareToken = &token
	f.repo.add(trip)

	dto, err := f.svc.GetByShareToken(context.Background(), token)
	if err != nil {
		t.Fatalf("share token read failed: %v", err)
	}
	if dto.ID != trip.ID {
		t.Fatalf("resolved wrong trip: %s", dto.ID)
	}
}

func TestGetByShareTokenHonorsExpiry(t *testing.T) {
	f := newTripFixture(t)
	trip := f.seedTrip("rome-trip", enums.TripVisibilityPublic)
	token := "tok_abc123"
	expired := f.now.Add(-time.Minute)
	trip.ShareToken = &token
	trip.ShareExpiresAt = &expired
	f.repo.add(trip)

	_, err := f.svc.GetByShareToken(context.Background(), token)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateRequiresOwnership(t *testing.T) {
	f := newTripFixture(t)
	f.seedTrip("rome-trip", enums.TripVisibilityPublic)

	name := "Renamed"
	member := uuid.New()
	f.members.members[member] = true

	_, err := f.svc.Update(context.Background(), member, "rome-trip", UpdateTripInput{Name: &name})
	assertCode(t, err, pkgerrors.CodeNotFound)

	dto, err := f.svc.Update(context.Background(), f.owner, "rome-trip", UpdateTripInput{Name: &name})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if dto.Name != "Renamed" {
		t.Fatalf("update not applied, name is %q", dto.Name)
	}
	if f.repo.updated == nil {
		t.Fatal("expected repository update")
	}
}

func TestDeleteRequiresOwnership(t *testing.T) {
	f := newTripFixture(t)
	trip := f.seedTrip("rome-trip", enums.TripVisibilityPrivate)

	err := f.svc.Delete(context.Background(), uuid.New(), "rome-trip")
	assertCode(t, err, pkgerrors.CodeNotFound)

	if err := f.svc.Delete(context.Background(), f.owner, "rome-trip"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if len(f.repo.deleted) != 1 || f.repo.deleted[0] != trip.ID {
		t.Fatalf("expected delete of %s, got %v", trip.ID, f.repo.deleted)
	}
}

func TestPublicFeedFiltersLapsedShares(t *testing.T) {
	f := newTripFixture(t)

	expired := f.now.Add(-time.Hour)
	f.repo.public = []models.Trip{
		{ID: uuid.New(), Slug: "live", Visibility: enums.TripVisibilityPublic, CreatedAt: f.now},
		{ID: uuid.New(), Slug: "lapsed", Visibility: enums.TripVisibilityPublic, ShareExpiresAt: &expired, CreatedAt: f.now},
	}

	page, err := f.svc.PublicFeed(context.Background(), pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("PublicFeed returned error: %v", err)
	}
	if len(page.Trips) != 1 || page.Trips[0].Slug != "live" {
		t.Fatalf("expected only the live trip, got %+v", page.Trips)
	}
	if page.NextCursor != "" {
		t.Fatalf("unexpected next cursor %q", page.NextCursor)
	}
}

func TestPublicFeedPaginates(t *testing.T) {
	f := newTripFixture(t)

	for i := 0; i < 3; i++ {
		f.repo.public = append(f.repo.public, models.Trip{
			ID:         uuid.New(),
			Visibility: enums.TripVisibilityPublic,
			CreatedAt:  f.now.Add(-time.Duration(i) * time.Hour),
		})
	}

	page, err := f.svc.PublicFeed(context.Background(), pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("PublicFeed returned error: %v", err)
	}
	if len(page.Trips) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(page.Trips))
	}
	if page.NextCursor == "" {
		t.Fatal("expected a next cursor")
	}
	if f.repo.lastClip != 3 {
		t.Fatalf("expected limit+1 rows requested, got %d", f.repo.lastClip)
	}

	cursor, err := pagination.ParseCursor(page.NextCursor)
	if err != nil {
		t.Fatalf("returned cursor does not round-trip: %v", err)
	}
	if cursor.ID != page.Trips[1].ID {
		t.Fatalf("cursor should point at the last returned row")
	}
}

func TestPublicFeedRejectsGarbageCursor(t *testing.T) {
	f := newTripFixture(t)
	_, err := f.svc.PublicFeed(context.Background(), pagination.Params{Cursor: "not-base64!"})
	assertCode(t, err, pkgerrors.CodeValidation)
}
