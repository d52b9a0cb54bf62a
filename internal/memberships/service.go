package memberships

import (
	"context"
	"fmt"
	"time"

	"github.com/globetrotter-app/globetrotter-backend/internal/access"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	pkgerrors "github.com/globetrotter-app/globetrotter-backend/pkg/errors"
	"github.com/google/uuid"
)

type membershipRepository interface {
	Ensure(ctx context.Context, tripID, userID uuid.UUID) (*models.TripMembership, error)
	HasMember(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, tripID uuid.UUID) ([]MemberDTO, error)
}

type tripResolver interface {
	FindBySlug(ctx context.Context, slug string) (*models.Trip, error)
}

type inviteChecker interface {
	HasInvite(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
}

type ownerLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service exposes membership operations.
type Service interface {
	Join(ctx context.Context, userID uuid.UUID, slug string) error
	EnsureMember(ctx context.Context, trip *models.Trip, userID uuid.UUID) error
	ListMembers(ctx context.Context, viewerID uuid.UUID, slug string) ([]MemberDTO, error)
}

type service struct {
	repo    membershipRepository
	trips   tripResolver
	invites inviteChecker
	users   ownerLookup
	now     func() time.Time
}

// NewService builds a membership service with the provided repositories.
func NewService(repo membershipRepository, trips tripResolver, invites inviteChecker, users ownerLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("membership repository required")
	}
	if trips == nil {
		return nil, fmt.Errorf("trip resolver required")
	}
	if invites == nil {
		return nil, fmt.Errorf("invite checker required")
	}
	if users == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	return &service{
		repo:    repo,
		trips:   trips,
		invites: invites,
		users:   users,
		now:     time.Now,
	}, nil
}

// Join adds the user to a trip reachable through its public surface. The
// call is idempotent: joining twice converges on one membership row, with
// the unique index as the final arbiter under racing requests.
func (s *service) Join(ctx context.Context, userID uuid.UUID, slug string) error {
	trip, err := s.resolveTrip(ctx, slug)
	if err != nil {
		return err
	}
	return s.EnsureMember(ctx, trip, userID)
}

// EnsureMember upgrades the user to an explicit member when they are
// eligible. Eligibility, in order: already the owner (nothing to do), an
// existing membership row (nothing to do), a pending invite (implicit
// acceptance), or current public visibility. Private trips stay hidden from
// ineligible users, so rejection reads as not found.
func (s *service) EnsureMember(ctx context.Context, trip *models.Trip, userID uuid.UUID) error {
	if trip == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if access.IsOwner(trip, userID) {
		return nil
	}

	hasRow, err := s.repo.HasMember(ctx, trip.ID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if hasRow {
		return nil
	}

	invited, err := s.invites.HasInvite(ctx, trip.ID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check invite")
	}
	if !invited && !access.CanJoin(trip, userID, hasRow, s.now()) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}

	if _, err := s.repo.Ensure(ctx, trip.ID, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
	}
	return nil
}

// ListMembers returns the owner followed by explicit members in join order.
func (s *service) ListMembers(ctx context.Context, viewerID uuid.UUID, slug string) ([]MemberDTO, error) {
	trip, err := s.resolveTrip(ctx, slug)
	if err != nil {
		return nil, err
	}

	hasRow := false
	if viewerID != uuid.Nil && viewerID != trip.OwnerID {
		hasRow, err = s.repo.HasMember(ctx, trip.ID, viewerID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
		}
	}
	if !access.CanView(trip, viewerID, hasRow, s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}

	members, err := s.repo.ListMembers(ctx, trip.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}

	owner, err := s.users.FindByID(ctx, trip.OwnerID)
	if err != nil {
		if db.IsNotFound(err) {
			return members, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner")
	}

	result := make([]MemberDTO, 0, len(members)+1)
	result = append(result, MemberDTO{
		UserID:    owner.ID,
		Email:     owner.Email,
		FirstName: owner.FirstName,
		LastName:  owner.LastName,
		IsOwner:   true,
		JoinedAt:  trip.CreatedAt,
	})
	result = append(result, members...)
	return result, nil
}

func (s *service) resolveTrip(ctx context.Context, slug string) (*models.Trip, error) {
	trip, err := s.trips.FindBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trip")
	}
	return trip, nil
}
