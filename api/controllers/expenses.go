package controllers

import (
	"net/http"
	"time"

	"github.com/globetrotter-app/globetrotter-backend/api/responses"
	"github.com/globetrotter-app/globetrotter-backend/api/validators"
	"github.com/globetrotter-app/globetrotter-backend/internal/expenses"
	"github.com/globetrotter-app/globetrotter-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type addExpenseRequest struct {
	Description string          `json:"description" validate:"required,max=240"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	SpentAt     *time.Time      `json:"spent_at,omitempty"`
}

// ExpensesAdd handles POST /trips/{slug}/expenses. Members only.
func ExpensesAdd(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addExpenseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := expenses.AddExpenseInput{
			Description: body.Description,
			Amount:      body.Amount,
			Currency:    body.Currency,
		}
		if body.SpentAt != nil {
			input.SpentAt = *body.SpentAt
		}

		expense, err := svc.Add(r.Context(), userID, chi.URLParam(r, "slug"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, expense)
	}
}

// ExpensesList handles GET /trips/{slug}/expenses.
func ExpensesList(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), userID, chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// ExpensesSummary handles GET /trips/{slug}/expenses/summary.
func ExpensesSummary(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), userID, chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
