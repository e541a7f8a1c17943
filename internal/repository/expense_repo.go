package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"finance-tracker/internal/domain"
)

// ExpenseRepository define el contrato de persistencia para gastos.
// Las lecturas filtran por visibilidad y las escrituras por dueño, de modo que
// un gasto ajeno y uno inexistente devuelven el mismo pgx.ErrNoRows.
type ExpenseRepository interface {
	Create(ctx context.Context, expense domain.Expense) error
	GetVisible(ctx context.Context, id, userID string) (domain.Expense, error)
	ListVisible(ctx context.Context, userID string, limit int) ([]domain.Expense, error)
	UpdateOwned(ctx context.Context, expense domain.Expense) (domain.Expense, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (domain.Expense, error)
}

type PgExpenseRepository struct {
	pool *pgxpool.Pool
}

func NewPgExpenseRepository(pool *pgxpool.Pool) *PgExpenseRepository {
	return &PgExpenseRepository{pool: pool}
}

const expenseColumns = `id, user_id, amount, date, date_offset, category, type, description, shared_with, created_at, updated_at`

// mismo orden que el backend en memoria: fecha descendente, empate por id
const listVisibleExpensesQuery = `
	SELECT ` + expenseColumns + `
	FROM expenses
	WHERE user_id = $1 OR $1 = ANY(shared_with)
	ORDER BY date DESC, id ASC
	LIMIT $2
`

func (r *PgExpenseRepository) Create(ctx context.Context, expense domain.Expense) error {
	const query = `
		INSERT INTO expenses (id, user_id, amount, date, date_offset, category, type, description, shared_with, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		expense.ID,
		expense.UserID,
		expense.Amount,
		expense.Date,
		utcOffset(expense.Date),
		expense.Category,
		string(expense.Type),
		nullableText(expense.Description),
		nonNil(expense.SharedWith),
		expense.CreatedAt,
	)
	return err
}

func (r *PgExpenseRepository) GetVisible(ctx context.Context, id, userID string) (domain.Expense, error) {
	const query = `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE id = $1 AND (user_id = $2 OR $2 = ANY(shared_with))
	`
	return scanExpense(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *PgExpenseRepository) ListVisible(ctx context.Context, userID string, limit int) ([]domain.Expense, error) {
	rows, err := r.pool.Query(ctx, listVisibleExpensesQuery, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *PgExpenseRepository) UpdateOwned(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	const query = `
		UPDATE expenses
		SET amount = $3,
			date = $4,
			date_offset = $5,
			category = $6,
			type = $7,
			description = $8,
			shared_with = $9,
			updated_at = $10
		WHERE id = $1 AND user_id = $2
		RETURNING ` + expenseColumns
	return scanExpense(r.pool.QueryRow(ctx, query,
		expense.ID,
		expense.UserID,
		expense.Amount,
		expense.Date,
		utcOffset(expense.Date),
		expense.Category,
		string(expense.Type),
		nullableText(expense.Description),
		nonNil(expense.SharedWith),
		expense.UpdatedAt,
	))
}

func (r *PgExpenseRepository) DeleteOwned(ctx context.Context, id, ownerID string) (domain.Expense, error) {
	const query = `
		DELETE FROM expenses
		WHERE id = $1 AND user_id = $2
		RETURNING ` + expenseColumns
	return scanExpense(r.pool.QueryRow(ctx, query, id, ownerID))
}

func scanExpense(row pgx.Row) (domain.Expense, error) {
	var (
		e           domain.Expense
		dateOffset  int
		expenseType string
		description *string
	)
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Amount,
		&e.Date,
		&dateOffset,
		&e.Category,
		&expenseType,
		&description,
		&e.SharedWith,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return domain.Expense{}, err
	}
	e.Type = domain.ExpenseType(expenseType)
	if description != nil {
		e.Description = *description
	}
	// timestamptz pierde el offset original; se restaura para que el mes salga en la zona del gasto.
	e.Date = inOffset(e.Date, dateOffset)
	e.SharedWith = nonNil(e.SharedWith)
	return e, nil
}

func utcOffset(t time.Time) int {
	_, offset := t.Zone()
	return offset
}

func inOffset(t time.Time, offset int) time.Time {
	if offset == 0 {
		return t.UTC()
	}
	return t.In(time.FixedZone("", offset))
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
