package memberships

import (
	"context"

	"github.com/globetrotter-app/globetrotter-backend/pkg/db"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes trip membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Ensure inserts a membership row for (trip, user) and is safe to retry:
// when the row already exists, including a concurrent insert losing the race
// on the unique index, the existing row is returned instead of an error.
func (r *Repository) Ensure(ctx context.Context, tripID, userID uuid.UUID) (*models.TripMembership, error) {
	membership := &models.TripMembership{
		ID:     uuid.New(),
		TripID: tripID,
		UserID: userID,
	}

	err := r.db.WithContext(ctx).Create(membership).Error
	if err == nil {
		return membership, nil
	}
	if !db.IsUniqueViolation(err, "idx_trip_memberships_trip_user") {
		return nil, err
	}
	return r.Get(ctx, tripID, userID)
}

// Get retrieves a membership by trip and user.
func (r *Repository) Get(ctx context.Context, tripID, userID uuid.UUID) (*models.TripMembership, error) {
	var membership models.TripMembership
	err := r.db.WithContext(ctx).
		Where("trip_id = ? AND user_id = ?", tripID, userID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// HasMember reports whether an explicit membership row exists.
func (r *Repository) HasMember(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TripMembership{}).
		Where("trip_id = ? AND user_id = ?", tripID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListMembers returns the trip's explicit members joined with user metadata,
// ascending by join time.
func (r *Repository) ListMembers(ctx context.Context, tripID uuid.UUID) ([]MemberDTO, error) {
	var rows []memberRow
	err := r.db.WithContext(ctx).
		Model(&models.TripMembership{}).
		Select("trip_memberships.user_id, users.email, users.first_name, users.last_name, trip_memberships.created_at").
		Joins("JOIN users ON users.id = trip_memberships.user_id").
		Where("trip_memberships.trip_id = ?", tripID).
		Order("trip_memberships.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return memberRowsToDTO(rows), nil
}
