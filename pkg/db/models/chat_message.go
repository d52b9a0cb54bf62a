package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/globetrotter-app/globetrotter-backend/pkg/enums"
)

// ChatMessage is an append-only chat log row. Seq is the single ordering
// authority for a trip's chat: assigned by the database at insert, ties in
// created_at are broken by it.
type ChatMessage struct {
	Seq       int64             `gorm:"column:seq;primaryKey;autoIncrement"`
	TripID    uuid.UUID         `gorm:"column:trip_id;type:uuid;not null;index"`
	SenderID  uuid.UUID         `gorm:"column:sender_id;type:uuid;not null"`
	Kind      enums.MessageKind `gorm:"type:message_kind;not null;default:text"`
	Body      string            `gorm:"type:text;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
