package expenses

import (
	"time"

	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseDTO is the outward-facing expense shape.
type ExpenseDTO struct {
	ID          uuid.UUID       `json:"id"`
	TripID      uuid.UUID       `json:"trip_id"`
	UserID      uuid.UUID       `json:"user_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	SpentAt     time.Time       `json:"spent_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// FromModel maps a persistence model to the outward DTO.
func FromModel(expense *models.Expense) *ExpenseDTO {
	if expense == nil {
		return nil
	}
	return &ExpenseDTO{
		ID:          expense.ID,
		TripID:      expense.TripID,
		UserID:      expense.UserID,
		Description: expense.Description,
		Amount:      expense.Amount,
		Currency:    expense.Currency,
		SpentAt:     expense.SpentAt,
		CreatedAt:   expense.CreatedAt,
	}
}

// SummaryDTO aggregates a trip's spend per currency.
type SummaryDTO struct {
	Totals []CurrencyTotal `json:"totals"`
	Count  int             `json:"count"`
}

// CurrencyTotal is the summed spend in one currency.
type CurrencyTotal struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
}
