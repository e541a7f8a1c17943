package domain

import (
	"slices"
	"time"
)

type ExpenseType string

const (
	ExpenseTypePersonal ExpenseType = "personal"
	ExpenseTypeShared   ExpenseType = "shared"
)

func (t ExpenseType) Valid() bool {
	return t == ExpenseTypePersonal || t == ExpenseTypeShared
}

// Expense es un gasto. El dueño nunca aparece en SharedWith.
type Expense struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Amount      float64     `json:"amount"`
	Date        time.Time   `json:"date"`
	Category    string      `json:"category"`
	Type        ExpenseType `json:"type"`
	Description string      `json:"description,omitempty"`
	SharedWith  []string    `json:"shared_with"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

// OwnedBy indica si userID puede modificar o borrar el gasto.
func (e Expense) OwnedBy(userID string) bool {
	return userID != "" && e.UserID == userID
}

// VisibleTo indica si userID puede leer el gasto: dueño o participante.
func (e Expense) VisibleTo(userID string) bool {
	if userID == "" {
		return false
	}
	return e.UserID == userID || slices.Contains(e.SharedWith, userID)
}

// MonthKey devuelve "YYYY-MM" en la zona horaria que trae la fecha.
func (e Expense) MonthKey() string {
	return e.Date.Format("2006-01")
}

// MonthlyAmounts acumula lo personal y lo compartido de un mes.
type MonthlyAmounts struct {
	Personal float64 `json:"personal"`
	Shared   float64 `json:"shared"`
}

// DashboardStats resume los gastos visibles para un usuario.
type DashboardStats struct {
	PersonalTotal     float64                   `json:"personal_total"`
	SharedTotal       float64                   `json:"shared_total"`
	TotalExpenses     float64                   `json:"total_expenses"`
	MonthlyBreakdown  map[string]MonthlyAmounts `json:"monthly_breakdown"`
	CategoryBreakdown map[string]float64        `json:"category_breakdown"`
}
