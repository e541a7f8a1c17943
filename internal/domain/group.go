package domain

import (
	"slices"
	"time"
)

// SharedGroup agrupa usuarios. Los miembros se resuelven una sola vez al crearlo.
type SharedGroup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatorID string    `json:"creator_id"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

func (g SharedGroup) HasMember(userID string) bool {
	return slices.Contains(g.Members, userID)
}
