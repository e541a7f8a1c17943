package events

import (
	"context"
	"encoding/json"
	"time"

	"finance-tracker/internal/domain"
)

type Kind string

const (
	ExpenseCreated Kind = "expense.created"
	ExpenseUpdated Kind = "expense.updated"
	ExpenseDeleted Kind = "expense.deleted"
)

// ExpenseEvent es el mensaje que se publica por cada cambio en un gasto.
type ExpenseEvent struct {
	Event        Kind      `json:"event"`
	ExpenseID    string    `json:"expense_id"`
	OwnerID      string    `json:"owner_id"`
	Participants []string  `json:"participants"`
	At           time.Time `json:"at"`
}

func NewExpenseEvent(kind Kind, expense domain.Expense, at time.Time) ExpenseEvent {
	participants := expense.SharedWith
	if participants == nil {
		participants = []string{}
	}
	return ExpenseEvent{
		Event:        kind,
		ExpenseID:    expense.ID,
		OwnerID:      expense.UserID,
		Participants: participants,
		At:           at,
	}
}

func (e ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher entrega eventos de gastos a un bus externo.
type Publisher interface {
	PublishExpense(ctx context.Context, event ExpenseEvent) error
	Close() error
}

// NopPublisher descarta los eventos. Se usa cuando AMQP_URL no está configurado.
type NopPublisher struct{}

func (NopPublisher) PublishExpense(context.Context, ExpenseEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
