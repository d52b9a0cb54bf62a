package models

import (
	"time"

	"github.com/google/uuid"
)

// TripInvite is an owner-issued request to add a user to a trip. Existence
// means pending; acceptance is implicit — the membership row created on the
// invitee's first authorized action is the acceptance signal.
type TripInvite struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TripID    uuid.UUID `gorm:"column:trip_id;type:uuid;not null;uniqueIndex:idx_trip_invites_trip_invitee"`
	InviteeID uuid.UUID `gorm:"column:invitee_id;type:uuid;not null;uniqueIndex:idx_trip_invites_trip_invitee"`
	InviterID uuid.UUID `gorm:"column:inviter_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
