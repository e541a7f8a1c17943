package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/service"
)

type ExpenseHandler struct {
	logger      *zap.Logger
	expenseServ *service.ExpenseService
}

func NewExpenseHandler(logger *zap.Logger, expenseServ *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{logger: logger, expenseServ: expenseServ}
}

// expenseRequest se usa tanto para crear como para reemplazar un gasto.
type expenseRequest struct {
	Amount      *float64     `json:"amount" binding:"required,gte=0"`
	Date        flexibleTime `json:"date"`
	Category    string       `json:"category" binding:"required"`
	Type        string       `json:"type" binding:"required,oneof=personal shared"`
	Description *string      `json:"description"`
	SharedWith  []string     `json:"shared_with"`
}

func (r expenseRequest) input() service.ExpenseInput {
	in := service.ExpenseInput{
		Date:       r.Date.Time,
		Category:   r.Category,
		Type:       domain.ExpenseType(r.Type),
		SharedWith: r.SharedWith,
	}
	if r.Amount != nil {
		in.Amount = *r.Amount
	}
	if r.Description != nil {
		in.Description = *r.Description
	}
	return in
}

// Create maneja POST /api/expenses.
func (h *ExpenseHandler) Create(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c, "could not validate credentials")
		return
	}
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "create expense", err)
		return
	}
	expense, err := h.expenseServ.Create(c.Request.Context(), user.ID, req.input())
	if err != nil {
		writeServiceError(c, h.logger, "create expense", err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// List maneja GET /api/expenses: propios y compartidos, más recientes primero.
func (h *ExpenseHandler) List(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c, "could not validate credentials")
		return
	}
	list, err := h.expenseServ.List(c.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(c, h.logger, "list expenses", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get maneja GET /api/expenses/:id.
func (h *ExpenseHandler) Get(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c, "could not validate credentials")
		return
	}
	expense, err := h.expenseServ.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, "get expense", err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Update maneja PUT /api/expenses/:id.
func (h *ExpenseHandler) Update(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c, "could not validate credentials")
		return
	}
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "update expense", err)
		return
	}
	expense, err := h.expenseServ.Update(c.Request.Context(), user.ID, c.Param("id"), req.input())
	if err != nil {
		writeServiceError(c, h.logger, "update expense", err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Delete maneja DELETE /api/expenses/:id.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c, "could not validate credentials")
		return
	}
	if err := h.expenseServ.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		writeServiceError(c, h.logger, "delete expense", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expense deleted"})
}

// DashboardStats maneja GET /api/dashboard/stats.
func (h *ExpenseHandler) DashboardStats(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c, "could not validate credentials")
		return
	}
	stats, err := h.expenseServ.Stats(c.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(c, h.logger, "compute stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
