package chat

import (
	"context"

	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/globetrotter-app/globetrotter-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes the append-only chat message log.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts one message and returns it with the database-assigned
// sequence. Messages are never updated or deleted; a trip deletion racing
// this insert surfaces as a foreign key violation for the caller to map.
func (r *Repository) Append(ctx context.Context, tripID, senderID uuid.UUID, kind enums.MessageKind, body string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		TripID:   tripID,
		SenderID: senderID,
		Kind:     kind,
		Body:     body,
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// Recent returns the most recent limit messages in ascending sequence order,
// oldest first, for the initial history load.
func (r *Repository) Recent(ctx context.Context, tripID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	var rows []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("seq DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}
