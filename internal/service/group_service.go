package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/repository"
)

// MaxGroups es el tope de grupos que se devuelven por listado.
const MaxGroups = 1000

type GroupService struct {
	logger *zap.Logger
	users  repository.UserRepository
	groups repository.GroupRepository
	now    func() time.Time
}

func NewGroupService(logger *zap.Logger, users repository.UserRepository, groups repository.GroupRepository) *GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupService{
		logger: logger,
		users:  users,
		groups: groups,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create resuelve los emails una sola vez. Los que no existen se descartan sin error
// y el creador siempre queda como primer miembro.
func (s *GroupService) Create(ctx context.Context, creatorID, name string, memberEmails []string) (domain.SharedGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.SharedGroup{}, fmt.Errorf("%w: name", ErrInvalidInput)
	}
	if strings.TrimSpace(creatorID) == "" {
		return domain.SharedGroup{}, fmt.Errorf("%w: creator", ErrInvalidInput)
	}

	members := []string{creatorID}
	seen := map[string]struct{}{creatorID: {}}
	for _, email := range memberEmails {
		email = normalizeEmail(email)
		if email == "" {
			continue
		}
		user, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return domain.SharedGroup{}, fmt.Errorf("resolve member: %w", err)
			}
			s.logger.Debug("group invitee not found", zap.String("email", email))
			continue
		}
		if _, ok := seen[user.ID]; ok {
			continue
		}
		seen[user.ID] = struct{}{}
		members = append(members, user.ID)
	}

	group := domain.SharedGroup{
		ID:        uuid.NewString(),
		Name:      name,
		CreatorID: creatorID,
		Members:   members,
		CreatedAt: s.now(),
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return domain.SharedGroup{}, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

func (s *GroupService) List(ctx context.Context, userID string) ([]domain.SharedGroup, error) {
	groups, err := s.groups.ListByMember(ctx, userID, MaxGroups)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}
