package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"

	"finance-tracker/internal/domain"
)

// Implementaciones en memoria con la misma semántica que las de Postgres,
// incluido pgx.ErrNoRows como señal de "no encontrado". Se usan con
// STORAGE_BACKEND=memory y en tests.

type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return ErrDuplicate
	}
	if _, ok := r.byID[user.ID]; ok {
		return ErrDuplicate
	}
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryUserRepository) UpdateProfile(_ context.Context, id string, update ProfileUpdate) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Language != nil {
		user.Language = *update.Language
	}
	updatedAt := update.UpdatedAt
	user.UpdatedAt = &updatedAt
	r.byID[id] = user
	return user, nil
}

type MemoryExpenseRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Expense
}

func NewMemoryExpenseRepository() *MemoryExpenseRepository {
	return &MemoryExpenseRepository{items: make(map[string]domain.Expense)}
}

func (r *MemoryExpenseRepository) Create(_ context.Context, expense domain.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[expense.ID]; ok {
		return ErrDuplicate
	}
	r.items[expense.ID] = cloneExpense(expense)
	return nil
}

func (r *MemoryExpenseRepository) GetVisible(_ context.Context, id, userID string) (domain.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.items[id]
	if !ok || !e.VisibleTo(userID) {
		return domain.Expense{}, pgx.ErrNoRows
	}
	return cloneExpense(e), nil
}

func (r *MemoryExpenseRepository) ListVisible(_ context.Context, userID string, limit int) ([]domain.Expense, error) {
	r.mu.RLock()
	out := make([]domain.Expense, 0)
	for _, e := range r.items {
		if e.VisibleTo(userID) {
			out = append(out, cloneExpense(e))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryExpenseRepository) UpdateOwned(_ context.Context, expense domain.Expense) (domain.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[expense.ID]
	if !ok || !current.OwnedBy(expense.UserID) {
		return domain.Expense{}, pgx.ErrNoRows
	}
	current.Amount = expense.Amount
	current.Date = expense.Date
	current.Category = expense.Category
	current.Type = expense.Type
	current.Description = expense.Description
	current.SharedWith = slices.Clone(nonNil(expense.SharedWith))
	current.UpdatedAt = expense.UpdatedAt
	r.items[expense.ID] = current
	return cloneExpense(current), nil
}

func (r *MemoryExpenseRepository) DeleteOwned(_ context.Context, id, ownerID string) (domain.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok || !e.OwnedBy(ownerID) {
		return domain.Expense{}, pgx.ErrNoRows
	}
	delete(r.items, id)
	return cloneExpense(e), nil
}

func cloneExpense(e domain.Expense) domain.Expense {
	e.SharedWith = slices.Clone(nonNil(e.SharedWith))
	return e
}

type MemoryGroupRepository struct {
	mu     sync.RWMutex
	groups []domain.SharedGroup
}

func NewMemoryGroupRepository() *MemoryGroupRepository {
	return &MemoryGroupRepository{}
}

func (r *MemoryGroupRepository) Create(_ context.Context, group domain.SharedGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	group.Members = slices.Clone(nonNil(group.Members))
	r.groups = append(r.groups, group)
	return nil
}

func (r *MemoryGroupRepository) ListByMember(_ context.Context, userID string, limit int) ([]domain.SharedGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.SharedGroup, 0)
	for _, g := range r.groups {
		if !g.HasMember(userID) {
			continue
		}
		g.Members = slices.Clone(g.Members)
		out = append(out, g)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
