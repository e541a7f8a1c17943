package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"finance-tracker/internal/domain"
)

type GroupRepository interface {
	Create(ctx context.Context, group domain.SharedGroup) error
	ListByMember(ctx context.Context, userID string, limit int) ([]domain.SharedGroup, error)
}

type PgGroupRepository struct {
	pool *pgxpool.Pool
}

func NewPgGroupRepository(pool *pgxpool.Pool) *PgGroupRepository {
	return &PgGroupRepository{pool: pool}
}

func (r *PgGroupRepository) Create(ctx context.Context, group domain.SharedGroup) error {
	const query = `
		INSERT INTO shared_groups (id, name, creator_id, members, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		group.ID,
		group.Name,
		group.CreatorID,
		nonNil(group.Members),
		group.CreatedAt,
	)
	return err
}

func (r *PgGroupRepository) ListByMember(ctx context.Context, userID string, limit int) ([]domain.SharedGroup, error) {
	const query = `
		SELECT id, name, creator_id, members, created_at
		FROM shared_groups
		WHERE $1 = ANY(members)
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]domain.SharedGroup, 0)
	for rows.Next() {
		var g domain.SharedGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatorID, &g.Members, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.Members = nonNil(g.Members)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}
