package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/globetrotter-app/globetrotter-backend/pkg/enums"
)

// Trip is the unit of sharing and chat. Slug is the display identifier
// exposed in URLs; ID stays internal. ShareToken, once assigned, is never
// regenerated implicitly — toggling visibility reuses it.
type Trip struct {
	ID             uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Slug           string               `gorm:"type:text;not null;uniqueIndex"`
	OwnerID        uuid.UUID            `gorm:"column:owner_id;type:uuid;not null"`
	Name           string               `gorm:"type:text;not null"`
	Destination    string               `gorm:"type:text;not null"`
	Description    *string              `gorm:"type:text"`
	StartDate      *time.Time           `gorm:"column:start_date;type:date"`
	EndDate        *time.Time           `gorm:"column:end_date;type:date"`
	Visibility     enums.TripVisibility `gorm:"type:trip_visibility;not null;default:private"`
	ShareToken     *string              `gorm:"column:share_token;type:text;uniqueIndex"`
	AllowCopy      bool                 `gorm:"column:allow_copy;not null;default:false"`
	ShareExpiresAt *time.Time           `gorm:"column:share_expires_at;type:timestamptz"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
