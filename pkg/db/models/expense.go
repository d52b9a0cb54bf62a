package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a spend entry recorded by a trip member against the trip budget.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TripID      uuid.UUID       `gorm:"column:trip_id;type:uuid;not null;index"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	Description string          `gorm:"type:text;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency    string          `gorm:"type:char(3);not null;default:USD"`
	SpentAt     time.Time       `gorm:"column:spent_at;type:date;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
