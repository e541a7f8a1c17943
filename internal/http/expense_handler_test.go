package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-tracker/internal/domain"
)

func (a *testAPI) createExpense(token string, body map[string]any) domain.Expense {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/expenses", token, body)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var e domain.Expense
	decode(a.t, rec, &e)
	return e
}

func (a *testAPI) stats(token string) domain.DashboardStats {
	a.t.Helper()
	rec := a.do(http.MethodGet, "/api/dashboard/stats", token, nil)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var s domain.DashboardStats
	decode(a.t, rec, &s)
	return s
}

func TestDashboard_PersonalExpense(t *testing.T) {
	api := newTestAPI(t)
	a := api.register("a@example.com", "A")

	api.createExpense(a.AccessToken, map[string]any{
		"amount": 50.75, "date": "2024-01-15", "category": "Supermarket", "type": "personal",
	})

	stats := api.stats(a.AccessToken)
	assert.Equal(t, 50.75, stats.PersonalTotal)
	assert.Zero(t, stats.SharedTotal)
	assert.Equal(t, 50.75, stats.TotalExpenses)
	assert.Equal(t, map[string]float64{"Supermarket": 50.75}, stats.CategoryBreakdown)
	assert.Equal(t, domain.MonthlyAmounts{Personal: 50.75}, stats.MonthlyBreakdown["2024-01"])
}

func TestDashboard_SharedFromBothSides(t *testing.T) {
	api := newTestAPI(t)
	a := api.register("a@example.com", "A")
	b := api.register("b@example.com", "B")

	api.createExpense(a.AccessToken, map[string]any{
		"amount": 120.0, "date": "2024-03-01T12:00:00", "category": "Rent", "type": "shared", "shared_with": []string{},
	})
	api.createExpense(a.AccessToken, map[string]any{
		"amount": 100.0, "date": "2024-03-02T09:30:00Z", "category": "Trip", "type": "shared", "shared_with": []string{b.ID},
	})

	fromA := api.stats(a.AccessToken)
	assert.Equal(t, 220.0, fromA.SharedTotal)
	assert.Equal(t, domain.MonthlyAmounts{Shared: 220}, fromA.MonthlyBreakdown["2024-03"])

	fromB := api.stats(b.AccessToken)
	assert.Equal(t, 50.0, fromB.SharedTotal)
	assert.Zero(t, fromB.PersonalTotal)
	assert.Equal(t, map[string]float64{"Trip": 50}, fromB.CategoryBreakdown)
}

func TestDashboard_JSONShape(t *testing.T) {
	api := newTestAPI(t)
	a := api.register("a@example.com", "A")

	rec := api.do(http.MethodGet, "/api/dashboard/stats", a.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"personal_total": 0,
		"shared_total": 0,
		"total_expenses": 0,
		"monthly_breakdown": {},
		"category_breakdown": {}
	}`, rec.Body.String())
}

func TestExpense_ParticipantIsReadOnly(t *testing.T) {
	api := newTestAPI(t)
	a := api.register("a@example.com", "A")
	b := api.register("b@example.com", "B")
	c := api.register("c@example.com", "C")

	e := api.createExpense(a.AccessToken, map[string]any{
		"amount": 100.0, "date": "2024-03-02", "category": "Trip", "type": "shared",
		"shared_with": []string{b.ID, a.ID, b.ID},
	})
	assert.Equal(t, []string{b.ID}, e.SharedWith)

	rec := api.do(http.MethodGet, "/api/expenses/"+e.ID, b.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/expenses", b.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Expense
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, e.ID, list[0].ID)

	update := map[string]any{"amount": 1.0, "date": "2024-03-02", "category": "Trip", "type": "shared"}
	rec = api.do(http.MethodPut, "/api/expenses/"+e.ID, b.AccessToken, update)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	missing := api.do(http.MethodPut, "/api/expenses/does-not-exist", b.AccessToken, update)
	assert.Equal(t, missing.Code, rec.Code)
	assert.Equal(t, missing.Body.String(), rec.Body.String())

	rec = api.do(http.MethodDelete, "/api/expenses/"+e.ID, b.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodGet, "/api/expenses/"+e.ID, c.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodGet, "/api/expenses/"+e.ID, a.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stored domain.Expense
	decode(t, rec, &stored)
	assert.Equal(t, 100.0, stored.Amount)
}

func TestExpense_OwnerUpdateAndDelete(t *testing.T) {
	api := newTestAPI(t)
	a := api.register("a@example.com", "A")

	e := api.createExpense(a.AccessToken, map[string]any{
		"amount": 10.0, "date": "2024-01-01", "category": "Food", "type": "personal", "description": "lunch",
	})
	assert.Equal(t, "lunch", e.Description)

	rec := api.do(http.MethodPut, "/api/expenses/"+e.ID, a.AccessToken, map[string]any{
		"amount": 0, "date": "2024-02-01T08:00:00+02:00", "category": "Gifts", "type": "personal",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated domain.Expense
	decode(t, rec, &updated)
	assert.Equal(t, e.ID, updated.ID)
	assert.Equal(t, a.ID, updated.UserID)
	assert.Zero(t, updated.Amount)
	assert.Equal(t, "Gifts", updated.Category)
	assert.Empty(t, updated.Description)
	assert.NotNil(t, updated.UpdatedAt)

	rec = api.do(http.MethodDelete, "/api/expenses/"+e.ID, a.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(http.MethodGet, "/api/expenses/"+e.ID, a.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExpense_ListNewestFirst(t *testing.T) {
	api := newTestAPI(t)
	a := api.register("a@example.com", "A")
	for _, d := range []string{"2024-01-10", "2024-03-10", "2024-02-10"} {
		api.createExpense(a.AccessToken, map[string]any{"amount": 1.0, "date": d, "category": "x", "type": "personal"})
	}

	rec := api.do(http.MethodGet, "/api/expenses", a.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Expense
	decode(t, rec, &list)
	require.Len(t, list, 3)
	assert.Equal(t, "2024-03", list[0].MonthKey())
	assert.Equal(t, "2024-02", list[1].MonthKey())
	assert.Equal(t, "2024-01", list[2].MonthKey())
}

func TestExpense_InvalidPayloads(t *testing.T) {
	api := newTestAPI(t)
	a := api.register("a@example.com", "A")

	for _, body := range []string{
		`{"date":"2024-01-01","category":"x","type":"personal"}`,
		`{"amount":-5,"date":"2024-01-01","category":"x","type":"personal"}`,
		`{"amount":5,"date":"2024-01-01","category":"x","type":"group"}`,
		`{"amount":5,"date":"yesterday","category":"x","type":"personal"}`,
		`{"amount":5,"category":"x","type":"personal"}`,
		`{"amount":5,"date":"2024-01-01","type":"personal"}`,
	} {
		rec := api.do(http.MethodPost, "/api/expenses", a.AccessToken, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}
