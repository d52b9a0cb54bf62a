package invites

import (
	"time"

	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/google/uuid"
)

// InviteDTO is the outward-facing invite shape. An invite's existence means
// it is pending; there is no separate accepted state, the membership row is
// the acceptance signal.
type InviteDTO struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	InviteeID uuid.UUID `json:"invitee_id"`
	InviterID uuid.UUID `json:"inviter_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FromModel maps a persistence model to the outward DTO.
func FromModel(invite *models.TripInvite) *InviteDTO {
	if invite == nil {
		return nil
	}
	return &InviteDTO{
		ID:        invite.ID,
		TripID:    invite.TripID,
		InviteeID: invite.InviteeID,
		InviterID: invite.InviterID,
		CreatedAt: invite.CreatedAt,
	}
}
