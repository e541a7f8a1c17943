package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/events"
	"finance-tracker/internal/repository"
)

// MaxExpenses es el tope de gastos que se leen por listado o dashboard.
const MaxExpenses = 1000

var ErrExpenseNotFound = errors.New("expense not found or not authorized")

type ExpenseInput struct {
	Amount      float64
	Date        time.Time
	Category    string
	Type        domain.ExpenseType
	Description string
	SharedWith  []string
}

// ExpenseService aplica las reglas de visibilidad y propiedad sobre los gastos.
type ExpenseService struct {
	logger    *zap.Logger
	expenses  repository.ExpenseRepository
	publisher events.Publisher
	now       func() time.Time
}

func NewExpenseService(logger *zap.Logger, expenses repository.ExpenseRepository, publisher events.Publisher) *ExpenseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ExpenseService{
		logger:    logger,
		expenses:  expenses,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *ExpenseService) Create(ctx context.Context, ownerID string, input ExpenseInput) (domain.Expense, error) {
	fields, err := normalizeExpenseInput(ownerID, input)
	if err != nil {
		return domain.Expense{}, err
	}
	expense := domain.Expense{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Amount:      fields.Amount,
		Date:        fields.Date,
		Category:    fields.Category,
		Type:        fields.Type,
		Description: fields.Description,
		SharedWith:  fields.SharedWith,
		CreatedAt:   s.now(),
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return domain.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	s.publish(ctx, events.ExpenseCreated, expense)
	return expense, nil
}

func (s *ExpenseService) List(ctx context.Context, userID string) ([]domain.Expense, error) {
	list, err := s.expenses.ListVisible(ctx, userID, MaxExpenses)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return list, nil
}

func (s *ExpenseService) Get(ctx context.Context, userID, id string) (domain.Expense, error) {
	expense, err := s.expenses.GetVisible(ctx, id, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, ErrExpenseNotFound
		}
		return domain.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return expense, nil
}

// Update reemplaza todos los campos editables. Solo el dueño puede hacerlo.
func (s *ExpenseService) Update(ctx context.Context, userID, id string, input ExpenseInput) (domain.Expense, error) {
	fields, err := normalizeExpenseInput(userID, input)
	if err != nil {
		return domain.Expense{}, err
	}
	updatedAt := s.now()
	expense, err := s.expenses.UpdateOwned(ctx, domain.Expense{
		ID:          id,
		UserID:      userID,
		Amount:      fields.Amount,
		Date:        fields.Date,
		Category:    fields.Category,
		Type:        fields.Type,
		Description: fields.Description,
		SharedWith:  fields.SharedWith,
		UpdatedAt:   &updatedAt,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, ErrExpenseNotFound
		}
		return domain.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	s.publish(ctx, events.ExpenseUpdated, expense)
	return expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.expenses.DeleteOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("delete expense: %w", err)
	}
	s.publish(ctx, events.ExpenseDeleted, deleted)
	return nil
}

func (s *ExpenseService) Stats(ctx context.Context, userID string) (domain.DashboardStats, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return ComputeDashboardStats(userID, list), nil
}

// Un fallo del bus no invalida la operación ya persistida.
func (s *ExpenseService) publish(ctx context.Context, kind events.Kind, expense domain.Expense) {
	if err := s.publisher.PublishExpense(ctx, events.NewExpenseEvent(kind, expense, s.now())); err != nil {
		s.logger.Warn("publish expense event failed",
			zap.String("event", string(kind)),
			zap.String("expense_id", expense.ID),
			zap.Error(err),
		)
	}
}

func normalizeExpenseInput(ownerID string, input ExpenseInput) (ExpenseInput, error) {
	if strings.TrimSpace(ownerID) == "" {
		return ExpenseInput{}, fmt.Errorf("%w: owner", ErrInvalidInput)
	}
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) || input.Amount < 0 {
		return ExpenseInput{}, fmt.Errorf("%w: amount must be a non-negative number", ErrInvalidInput)
	}
	if input.Date.IsZero() {
		return ExpenseInput{}, fmt.Errorf("%w: date", ErrInvalidInput)
	}
	input.Category = strings.TrimSpace(input.Category)
	if input.Category == "" {
		return ExpenseInput{}, fmt.Errorf("%w: category", ErrInvalidInput)
	}
	if !input.Type.Valid() {
		return ExpenseInput{}, fmt.Errorf("%w: type must be personal or shared", ErrInvalidInput)
	}
	input.Description = strings.TrimSpace(input.Description)
	if input.Type == domain.ExpenseTypePersonal {
		input.SharedWith = []string{}
		return input, nil
	}
	input.SharedWith = participantIDs(ownerID, input.SharedWith)
	return input, nil
}

// participantIDs quita vacíos, duplicados y al propio dueño conservando el orden.
func participantIDs(ownerID string, ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || id == ownerID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
