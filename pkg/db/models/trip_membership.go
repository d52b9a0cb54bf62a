package models

import (
	"time"

	"github.com/google/uuid"
)

// TripMembership records a user's standing participation in a trip's
// collaborative features. The (trip_id, user_id) unique index is the final
// backstop against racing joins. The owner is a member implicitly and has no
// row here.
type TripMembership struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TripID    uuid.UUID `gorm:"column:trip_id;type:uuid;not null;uniqueIndex:idx_trip_memberships_trip_user"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_trip_memberships_trip_user"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
