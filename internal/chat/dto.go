package chat

import (
	"time"

	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/globetrotter-app/globetrotter-backend/pkg/enums"
	"github.com/google/uuid"
)

// MessageDTO is the wire shape of one chat message. Seq is the server's
// ordering authority: clients render history and live broadcasts sorted by
// it, never by arrival order.
type MessageDTO struct {
	Seq       int64             `json:"seq"`
	TripID    uuid.UUID         `json:"trip_id"`
	SenderID  uuid.UUID         `json:"sender_id"`
	Kind      enums.MessageKind `json:"kind"`
	Body      string            `json:"body"`
	CreatedAt time.Time         `json:"created_at"`
}

// FromModel maps a persistence model to the wire DTO.
func FromModel(msg *models.ChatMessage) *MessageDTO {
	if msg == nil {
		return nil
	}
	return &MessageDTO{
		Seq:       msg.Seq,
		TripID:    msg.TripID,
		SenderID:  msg.SenderID,
		Kind:      msg.Kind,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt,
	}
}
