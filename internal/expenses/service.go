package expenses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/globetrotter-app/globetrotter-backend/internal/access"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	pkgerrors "github.com/globetrotter-app/globetrotter-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type expenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) (*models.Expense, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]models.Expense, error)
}

type tripResolver interface {
	FindBySlug(ctx context.Context, slug string) (*models.Trip, error)
}

type membershipChecker interface {
	HasMember(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
}

// Service exposes trip expense tracking. Expenses follow chat's access rule:
// members write, anyone with view access reads.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, slug string, input AddExpenseInput) (*ExpenseDTO, error)
	List(ctx context.Context, viewerID uuid.UUID, slug string) ([]ExpenseDTO, error)
	Summary(ctx context.Context, viewerID uuid.UUID, slug string) (*SummaryDTO, error)
}

type service struct {
	repo        expenseRepository
	trips       tripResolver
	memberships membershipChecker
	now         func() time.Time
}

// NewService builds an expense service with the provided repositories.
func NewService(repo expenseRepository, trips tripResolver, memberships membershipChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("expense repository required")
	}
	if trips == nil {
		return nil, fmt.Errorf("trip resolver required")
	}
	if memberships == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	return &service{
		repo:        repo,
		trips:       trips,
		memberships: memberships,
		now:         time.Now,
	}, nil
}

// AddExpenseInput captures the fields accepted when recording spend.
type AddExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Currency    string
	SpentAt     time.Time
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, slug string, input AddExpenseInput) (*ExpenseDTO, error) {
	if input.Amount.IsNegative() || input.Amount.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency must be a 3-letter code")
	}

	trip, hasRow, err := s.resolve(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	if !access.CanPost(trip, userID, hasRow) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a trip member")
	}

	spentAt := input.SpentAt
	if spentAt.IsZero() {
		spentAt = s.now()
	}

	created, err := s.repo.Create(ctx, &models.Expense{
		TripID:      trip.ID,
		UserID:      userID,
		Description: input.Description,
		Amount:      input.Amount.Round(2),
		Currency:    currency,
		SpentAt:     spentAt,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create expense")
	}
	return FromModel(created), nil
}

func (s *service) List(ctx context.Context, viewerID uuid.UUID, slug string) ([]ExpenseDTO, error) {
	rows, err := s.listAuthorized(ctx, viewerID, slug)
	if err != nil {
		return nil, err
	}
	dtos := make([]ExpenseDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Summary(ctx context.Context, viewerID uuid.UUID, slug string) (*SummaryDTO, error) {
	rows, err := s.listAuthorized(ctx, viewerID, slug)
	if err != nil {
		return nil, err
	}

	totals := map[string]decimal.Decimal{}
	order := []string{}
	for i := range rows {
		if _, ok := totals[rows[i].Currency]; !ok {
			order = append(order, rows[i].Currency)
		}
		totals[rows[i].Currency] = totals[rows[i].Currency].Add(rows[i].Amount)
	}

	summary := &SummaryDTO{Count: len(rows), Totals: make([]CurrencyTotal, 0, len(order))}
	for _, currency := range order {
		summary.Totals = append(summary.Totals, CurrencyTotal{Currency: currency, Total: totals[currency]})
	}
	return summary, nil
}

func (s *service) listAuthorized(ctx context.Context, viewerID uuid.UUID, slug string) ([]models.Expense, error) {
	trip, hasRow, err := s.resolve(ctx, viewerID, slug)
	if err != nil {
		return nil, err
	}
	if !access.CanView(trip, viewerID, hasRow, s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}

	rows, err := s.repo.ListForTrip(ctx, trip.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expenses")
	}
	return rows, nil
}

func (s *service) resolve(ctx context.Context, userID uuid.UUID, slug string) (*models.Trip, bool, error) {
	trip, err := s.trips.FindBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, false, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trip")
	}

	hasRow := false
	if userID != uuid.Nil && userID != trip.OwnerID {
		hasRow, err = s.memberships.HasMember(ctx, trip.ID, userID)
		if err != nil {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
		}
	}
	return trip, hasRow, nil
}
