package access

import (
	"time"

	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/globetrotter-app/globetrotter-backend/pkg/enums"
	"github.com/google/uuid"
)

// This package is the single predicate set consulted before any trip access
// decision. It holds no state and performs no I/O: callers resolve the trip
// and the membership row first and pass them in. Every predicate fails closed
// on missing input.

// IsOwner reports whether the user owns the trip.
func IsOwner(trip *models.Trip, userID uuid.UUID) bool {
	if trip == nil || userID == uuid.Nil {
		return false
	}
	return trip.OwnerID == userID
}

// IsPublic reports whether the trip is currently publicly visible. A share
// expiry in the past makes the trip private again for new access decisions.
// Members admitted before expiry keep their membership rows.
func IsPublic(trip *models.Trip, now time.Time) bool {
	if trip == nil {
		return false
	}
	if trip.Visibility != enums.TripVisibilityPublic {
		return false
	}
	if trip.ShareExpiresAt != nil && !trip.ShareExpiresAt.After(now) {
		return false
	}
	return true
}

// IsMember reports whether the user participates in the trip. The owner is a
// member implicitly and never has an explicit row. hasMembershipRow is the
// caller's lookup result for (trip, user).
func IsMember(trip *models.Trip, userID uuid.UUID, hasMembershipRow bool) bool {
	if trip == nil || userID == uuid.Nil {
		return false
	}
	if IsOwner(trip, userID) {
		return true
	}
	return hasMembershipRow
}

// CanView reports whether the user may read the trip and its chat history.
func CanView(trip *models.Trip, userID uuid.UUID, hasMembershipRow bool, now time.Time) bool {
	if trip == nil {
		return false
	}
	return IsMember(trip, userID, hasMembershipRow) || IsPublic(trip, now)
}

// CanJoin reports whether the user may create a membership by joining the
// trip through its public surface. Already-member joins are handled upstream
// as idempotent no-ops, so this returns false for them.
func CanJoin(trip *models.Trip, userID uuid.UUID, hasMembershipRow bool, now time.Time) bool {
	if trip == nil || userID == uuid.Nil {
		return false
	}
	if IsMember(trip, userID, hasMembershipRow) {
		return false
	}
	return IsPublic(trip, now)
}

// CanPost reports whether the user may append chat messages to the trip.
func CanPost(trip *models.Trip, userID uuid.UUID, hasMembershipRow bool) bool {
	return IsMember(trip, userID, hasMembershipRow)
}

// CanInvite reports whether the inviter may issue invites for the trip.
// Only the owner can.
func CanInvite(trip *models.Trip, inviterID uuid.UUID) bool {
	return IsOwner(trip, inviterID)
}
