package sharing

import (
	"context"
	"fmt"
	"time"

	"github.com/globetrotter-app/globetrotter-backend/internal/access"
	"github.com/globetrotter-app/globetrotter-backend/pkg/config"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/globetrotter-app/globetrotter-backend/pkg/enums"
	pkgerrors "github.com/globetrotter-app/globetrotter-backend/pkg/errors"
	"github.com/globetrotter-app/globetrotter-backend/pkg/security"
	"github.com/google/uuid"
)

type tripRepository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Trip, error)
	Update(ctx context.Context, trip *models.Trip) error
}

// Service exposes owner-controlled share settings.
type Service interface {
	Get(ctx context.Context, requesterID uuid.UUID, slug string) (*ShareSettingsDTO, error)
	Update(ctx context.Context, requesterID uuid.UUID, slug string, input UpdateShareInput) (*ShareSettingsDTO, error)
}

type service struct {
	trips     tripRepository
	shareCfg  config.ShareConfig
	mintToken func() (string, error)
}

// NewService builds a share-link service with the provided repository.
func NewService(trips tripRepository, shareCfg config.ShareConfig) (Service, error) {
	if trips == nil {
		return nil, fmt.Errorf("trip repository required")
	}
	return &service{
		trips:     trips,
		shareCfg:  shareCfg,
		mintToken: security.NewShareToken,
	}, nil
}

// UpdateShareInput captures the mutable share settings. Nil means unchanged.
// ExpiresAt is applied verbatim when SetExpiry is true so the expiry can be
// cleared by passing a nil timestamp.
type UpdateShareInput struct {
	IsPublic    *bool
	AllowCopy   *bool
	SetExpiry   bool
	ExpiresAt   *time.Time
	RotateToken bool
}

func (s *service) Get(ctx context.Context, requesterID uuid.UUID, slug string) (*ShareSettingsDTO, error) {
	trip, err := s.resolveOwned(ctx, requesterID, slug)
	if err != nil {
		return nil, err
	}
	return settingsFromTrip(trip, s.shareCfg.PublicBaseURL), nil
}

// Update mutates the share settings. The share token is minted exactly once,
// on the first activation; turning visibility off and on again reuses the
// existing token so previously distributed links stay valid. Only an
// explicit RotateToken replaces it.
func (s *service) Update(ctx context.Context, requesterID uuid.UUID, slug string, input UpdateShareInput) (*ShareSettingsDTO, error) {
	trip, err := s.resolveOwned(ctx, requesterID, slug)
	if err != nil {
		return nil, err
	}

	if input.IsPublic != nil {
		if *input.IsPublic {
			trip.Visibility = enums.TripVisibilityPublic
		} else {
			trip.Visibility = enums.TripVisibilityPrivate
		}
	}
	if input.AllowCopy != nil {
		trip.AllowCopy = *input.AllowCopy
	}
	if input.SetExpiry {
		trip.ShareExpiresAt = input.ExpiresAt
	}

	needsToken := trip.Visibility == enums.TripVisibilityPublic && trip.ShareToken == nil
	if needsToken || (input.RotateToken && trip.ShareToken != nil) {
		token, err := s.mintToken()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint share token")
		}
		trip.ShareToken = &token
	}

	if err := s.trips.Update(ctx, trip); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update share settings")
	}
	return settingsFromTrip(trip, s.shareCfg.PublicBaseURL), nil
}

// resolveOwned loads the trip and enforces the owner-only rule. Unknown
// slugs and trips owned by someone else both read as not found so share
// settings never reveal a private trip's existence.
func (s *service) resolveOwned(ctx context.Context, requesterID uuid.UUID, slug string) (*models.Trip, error) {
	trip, err := s.trips.FindBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trip")
	}
	if !access.IsOwner(trip, requesterID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}
	return trip, nil
}
