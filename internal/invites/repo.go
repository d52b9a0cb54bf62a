package invites

import (
	"context"

	"github.com/globetrotter-app/globetrotter-backend/pkg/db"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes trip invite persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an invite row. A concurrent duplicate for the same
// (trip, invitee) loses on the unique index and gets the existing row back,
// keeping re-invites idempotent at the storage layer.
func (r *Repository) Create(ctx context.Context, tripID, inviteeID, inviterID uuid.UUID) (*models.TripInvite, error) {
	invite := &models.TripInvite{
		ID:        uuid.New(),
		TripID:    tripID,
		InviteeID: inviteeID,
		InviterID: inviterID,
	}

	err := r.db.WithContext(ctx).Create(invite).Error
	if err == nil {
		return invite, nil
	}
	if !db.IsUniqueViolation(err, "idx_trip_invites_trip_invitee") {
		return nil, err
	}
	return r.Get(ctx, tripID, inviteeID)
}

// Get retrieves an invite by trip and invitee.
func (r *Repository) Get(ctx context.Context, tripID, inviteeID uuid.UUID) (*models.TripInvite, error) {
	var invite models.TripInvite
	err := r.db.WithContext(ctx).
		Where("trip_id = ? AND invitee_id = ?", tripID, inviteeID).
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// HasInvite reports whether a pending invite exists for (trip, user).
func (r *Repository) HasInvite(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TripInvite{}).
		Where("trip_id = ? AND invitee_id = ?", tripID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForTrip returns the trip's pending invites, oldest first.
func (r *Repository) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]models.TripInvite, error) {
	var invites []models.TripInvite
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}
