package trips

import (
	"time"

	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/globetrotter-app/globetrotter-backend/pkg/enums"
	"github.com/google/uuid"
)

// TripDTO is the outward-facing trip shape. The share token is deliberately
// absent: it is only exposed through the share settings endpoint, to the
// owner.
type TripDTO struct {
	ID          uuid.UUID            `json:"id"`
	Slug        string               `json:"slug"`
	OwnerID     uuid.UUID            `json:"owner_id"`
	Name        string               `json:"name"`
	Destination string               `json:"destination"`
	Description *string              `json:"description,omitempty"`
	StartDate   *time.Time           `json:"start_date,omitempty"`
	EndDate     *time.Time           `json:"end_date,omitempty"`
	Visibility  enums.TripVisibility `json:"visibility"`
	AllowCopy   bool                 `json:"allow_copy"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// FromModel maps a persistence model to the outward DTO.
func FromModel(trip *models.Trip) *TripDTO {
	if trip == nil {
		return nil
	}
	return &TripDTO{
		ID:          trip.ID,
		Slug:        trip.Slug,
		OwnerID:     trip.OwnerID,
		Name:        trip.Name,
		Destination: trip.Destination,
		Description: trip.Description,
		StartDate:   trip.StartDate,
		EndDate:     trip.EndDate,
		Visibility:  trip.Visibility,
		AllowCopy:   trip.AllowCopy,
		CreatedAt:   trip.CreatedAt,
		UpdatedAt:   trip.UpdatedAt,
	}
}

// FeedPage is one page of the public trip feed.
type FeedPage struct {
	Trips      []TripDTO `json:"trips"`
	NextCursor string    `json:"next_cursor,omitempty"`
}
