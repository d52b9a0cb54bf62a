package invites

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/globetrotter-app/globetrotter-backend/internal/access"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	pkgerrors "github.com/globetrotter-app/globetrotter-backend/pkg/errors"
	"github.com/google/uuid"
)

type inviteRepository interface {
	Create(ctx context.Context, tripID, inviteeID, inviterID uuid.UUID) (*models.TripInvite, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]models.TripInvite, error)
}

type tripResolver interface {
	FindBySlug(ctx context.Context, slug string) (*models.Trip, error)
}

type userLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type membershipChecker interface {
	HasMember(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
}

// Service exposes invite operations.
type Service interface {
	Create(ctx context.Context, inviterID uuid.UUID, slug, inviteeEmail string) (*InviteDTO, error)
	ListForTrip(ctx context.Context, requesterID uuid.UUID, slug string) ([]InviteDTO, error)
}

type service struct {
	repo        inviteRepository
	trips       tripResolver
	users       userLookup
	memberships membershipChecker
	now         func() time.Time
}

// NewService builds an invite service with the provided repositories.
func NewService(repo inviteRepository, trips tripResolver, users userLookup, memberships membershipChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invite repository required")
	}
	if trips == nil {
		return nil, fmt.Errorf("trip resolver required")
	}
	if users == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	if memberships == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	return &service{
		repo:        repo,
		trips:       trips,
		users:       users,
		memberships: memberships,
		now:         time.Now,
	}, nil
}

// Create issues an invite from the trip owner to an existing user. The
// checks run in a fixed order: the invitee account must exist, the inviter
// must own the trip, and the invitee must not already be a member.
// Re-inviting someone with a pending invite returns the existing invite
// rather than erroring, so retried requests are harmless. Delivery of the
// invite (email or otherwise) is out of scope here; the contract ends at
// durable invite creation.
func (s *service) Create(ctx context.Context, inviterID uuid.UUID, slug, inviteeEmail string) (*InviteDTO, error) {
	email := strings.ToLower(strings.TrimSpace(inviteeEmail))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	trip, err := s.resolveTrip(ctx, slug)
	if err != nil {
		return nil, err
	}

	invitee, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	if !access.CanInvite(trip, inviterID) {
		// Only inviters who can already see the trip learn that inviting
		// is owner-only. Anyone else gets the same not-found as every
		// other read of a trip they cannot view.
		hasRow, err := s.memberships.HasMember(ctx, trip.ID, inviterID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
		}
		if access.CanView(trip, inviterID, hasRow, s.now()) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the trip owner")
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}

	if invitee.ID == trip.OwnerID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "already a member")
	}
	isMember, err := s.memberships.HasMember(ctx, trip.ID, invitee.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if isMember {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "already a member")
	}

	invite, err := s.repo.Create(ctx, trip.ID, invitee.ID, inviterID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invite")
	}
	return FromModel(invite), nil
}

// ListForTrip returns pending invites; only the owner may see them.
func (s *service) ListForTrip(ctx context.Context, requesterID uuid.UUID, slug string) ([]InviteDTO, error) {
	trip, err := s.resolveTrip(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(trip, requesterID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}

	rows, err := s.repo.ListForTrip(ctx, trip.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invites")
	}
	dtos := make([]InviteDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
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
