package service

import "finance-tracker/internal/domain"

// UserShare devuelve cuánto de un gasto se atribuye a userID y si cae en el
// balde compartido. El dueño de un gasto compartido cuenta el monto completo;
// un participante cuenta amount/(len(shared_with)+1).
func UserShare(e domain.Expense, userID string) (amount float64, shared bool) {
	if e.Type != domain.ExpenseTypeShared {
		return e.Amount, false
	}
	if e.UserID == userID {
		return e.Amount, true
	}
	return e.Amount / float64(len(e.SharedWith)+1), true
}

// ComputeDashboardStats agrega en una sola pasada los gastos visibles para userID.
func ComputeDashboardStats(userID string, expenses []domain.Expense) domain.DashboardStats {
	stats := domain.DashboardStats{
		MonthlyBreakdown:  make(map[string]domain.MonthlyAmounts),
		CategoryBreakdown: make(map[string]float64),
	}
	for _, e := range expenses {
		amount, shared := UserShare(e, userID)
		month := stats.MonthlyBreakdown[e.MonthKey()]
		if shared {
			stats.SharedTotal += amount
			month.Shared += amount
		} else {
			stats.PersonalTotal += amount
			month.Personal += amount
		}
		stats.MonthlyBreakdown[e.MonthKey()] = month
		stats.CategoryBreakdown[e.Category] += amount
	}
	stats.TotalExpenses = stats.PersonalTotal + stats.SharedTotal
	return stats
}
