package trips

import (
	"context"

	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/globetrotter-app/globetrotter-backend/pkg/enums"
	"github.com/globetrotter-app/globetrotter-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes trip persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new trip and returns the persisted model.
func (r *Repository) Create(ctx context.Context, trip *models.Trip) (*models.Trip, error) {
	if err := r.db.WithContext(ctx).Create(trip).Error; err != nil {
		return nil, err
	}
	return trip, nil
}

// FindByID loads a trip by its internal id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.WithContext(ctx).First(&trip, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// FindBySlug resolves the display identifier to the trip record.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&trip).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// FindByShareToken resolves a share capability token to its trip.
func (r *Repository) FindByShareToken(ctx context.Context, token string) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.WithContext(ctx).Where("share_token = ?", token).First(&trip).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// Update persists the full trip record.
func (r *Repository) Update(ctx context.Context, trip *models.Trip) error {
	return r.db.WithContext(ctx).Save(trip).Error
}

// Delete removes the trip. Memberships, invites, messages, and expenses go
// with it through the ON DELETE CASCADE foreign keys.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Trip{}, "id = ?", id).Error
}

// ListForUser returns trips the user owns or has joined, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error) {
	var trips []models.Trip
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", userID).
		Or("id IN (?)", r.db.
			Model(&models.TripMembership{}).
			Select("trip_id").
			Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

// ListPublic returns a keyset page of currently public trips, newest first.
// The caller passes limit+1 rows worth of budget to detect the next page.
func (r *Repository) ListPublic(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Trip, error) {
	query := r.db.WithContext(ctx).
		Where("visibility = ?", enums.TripVisibilityPublic).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var trips []models.Trip
	if err := query.Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

// ExpireShares flips expired public trips back to private in batches and
// returns how many rows were touched. The share token is kept so the owner
// can re-enable the same link later.
func (r *Repository) ExpireShares(ctx context.Context, batch int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Trip{}).
		Where("id IN (?)", r.db.
			Model(&models.Trip{}).
			Select("id").
			Where("visibility = ? AND share_expires_at IS NOT NULL AND share_expires_at <= now()", enums.TripVisibilityPublic).
			Limit(batch)).
		Update("visibility", enums.TripVisibilityPrivate)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
