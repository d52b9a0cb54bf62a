package expenses

import (
	"context"

	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes expense persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new expense and returns the persisted model.
func (r *Repository) Create(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(expense).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

// ListForTrip returns the trip's expenses, most recent spend first.
func (r *Repository) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]models.Expense, error) {
	var rows []models.Expense
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("spent_at DESC, created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
