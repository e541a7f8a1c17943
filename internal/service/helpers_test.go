package service

import (
	"context"
	"time"

	"finance-tracker/internal/domain"
)

func testUser(id string) domain.User {
	return domain.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      "User " + id,
		Language:  domain.DefaultLanguage,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// plainHasher evita el costo de bcrypt en tests de servicio.
type plainHasher struct{}

func (plainHasher) Hash(plaintext string) (string, error) { return "plain:" + plaintext, nil }

func (plainHasher) Verify(plaintext, hash string) bool { return hash == "plain:"+plaintext }

type denyLimiter struct{}

func (denyLimiter) Allow(_ context.Context, _ string) bool { return false }

func (denyLimiter) Fail(_ context.Context, _ string) {}

func (denyLimiter) Reset(_ context.Context, _ string) {}
