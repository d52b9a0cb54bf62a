package trips

import (
	"context"
	"fmt"
	"time"

	"github.com/globetrotter-app/globetrotter-backend/internal/access"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/globetrotter-app/globetrotter-backend/pkg/enums"
	pkgerrors "github.com/globetrotter-app/globetrotter-backend/pkg/errors"
	"github.com/globetrotter-app/globetrotter-backend/pkg/pagination"
	"github.com/google/uuid"
)

type tripRepository interface {
	Create(ctx context.Context, trip *models.Trip) (*models.Trip, error)
	FindBySlug(ctx context.Context, slug string) (*models.Trip, error)
	FindByShareToken(ctx context.Context, token string) (*models.Trip, error)
	Update(ctx context.Context, trip *models.Trip) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error)
	ListPublic(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Trip, error)
}

type membershipChecker interface {
	HasMember(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
}

// Service exposes trip operations.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateTripInput) (*TripDTO, error)
	GetBySlug(ctx context.Context, viewerID uuid.UUID, slug string) (*TripDTO, error)
	GetByShareToken(ctx context.Context, token string) (*TripDTO, error)
	Update(ctx context.Context, userID uuid.UUID, slug string, input UpdateTripInput) (*TripDTO, error)
	Delete(ctx context.Context, userID uuid.UUID, slug string) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]TripDTO, error)
	PublicFeed(ctx context.Context, params pagination.Params) (*FeedPage, error)
}

type service struct {
	repo        tripRepository
	memberships membershipChecker
	now         func() time.Time
}

// NewService builds a trip service with the provided repositories.
func NewService(repo tripRepository, memberships membershipChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("trip repository required")
	}
	if memberships == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	return &service{
		repo:        repo,
		memberships: memberships,
		now:         time.Now,
	}, nil
}

// CreateTripInput captures the fields accepted at trip creation.
type CreateTripInput struct {
	Name        string
	Destination string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateTripInput captures the mutable trip fields. Nil means unchanged.
type UpdateTripInput struct {
	Name        *string
	Destination *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateTripInput) (*TripDTO, error) {
	if err := validateDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	slug, err := Slugify(input.Name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate slug")
	}

	trip := &models.Trip{
		Slug:        slug,
		OwnerID:     ownerID,
		Name:        input.Name,
		Destination: input.Destination,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Visibility:  enums.TripVisibilityPrivate,
	}

	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create trip")
	}
	return FromModel(created), nil
}

// GetBySlug returns the trip when the viewer may see it. A private trip is
// reported as not found to anyone without access, so its existence never
// leaks through this endpoint.
func (s *service) GetBySlug(ctx context.Context, viewerID uuid.UUID, slug string) (*TripDTO, error) {
	trip, hasRow, err := s.resolveWithMembership(ctx, viewerID, slug)
	if err != nil {
		return nil, err
	}
	if !access.CanView(trip, viewerID, hasRow, s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}
	return FromModel(trip), nil
}

// GetByShareToken resolves a share link. The token is a capability: knowing
// it grants view access regardless of the in-app visibility flag, until the
// share expiry passes.
func (s *service) GetByShareToken(ctx context.Context, token string) (*TripDTO, error) {
	trip, err := s.repo.FindByShareToken(ctx, token)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trip")
	}
	if trip.ShareExpiresAt != nil && !trip.ShareExpiresAt.After(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}
	return FromModel(trip), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, slug string, input UpdateTripInput) (*TripDTO, error) {
	trip, err := s.resolveOwned(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trip.Name = *input.Name
	}
	if input.Destination != nil {
		trip.Destination = *input.Destination
	}
	if input.Description != nil {
		trip.Description = input.Description
	}
	if input.StartDate != nil {
		trip.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		trip.EndDate = input.EndDate
	}
	if err := validateDates(trip.StartDate, trip.EndDate); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, trip); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update trip")
	}
	return FromModel(trip), nil
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID, slug string) error {
	trip, err := s.resolveOwned(ctx, userID, slug)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, trip.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete trip")
	}
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]TripDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trips")
	}
	dtos := make([]TripDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) PublicFeed(ctx context.Context, params pagination.Params) (*FeedPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListPublic(ctx, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list public trips")
	}

	now := s.now()
	page := &FeedPage{Trips: make([]TripDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		// Expired shares still flagged public are filtered here until the
		// sweeper flips them back to private.
		if !access.IsPublic(&rows[i], now) {
			continue
		}
		page.Trips = append(page.Trips, *FromModel(&rows[i]))
	}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

func (s *service) resolveWithMembership(ctx context.Context, viewerID uuid.UUID, slug string) (*models.Trip, bool, error) {
	trip, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, false, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trip")
	}

	hasRow := false
	if viewerID != uuid.Nil && viewerID != trip.OwnerID {
		hasRow, err = s.memberships.HasMember(ctx, trip.ID, viewerID)
		if err != nil {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
		}
	}
	return trip, hasRow, nil
}

func (s *service) resolveOwned(ctx context.Context, userID uuid.UUID, slug string) (*models.Trip, error) {
	trip, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trip")
	}
	if !access.IsOwner(trip, userID) {
		// Same hiding policy as reads: non-owners learn nothing.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}
	return trip, nil
}

func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end date before start date")
	}
	return nil
}
