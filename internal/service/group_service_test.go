package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/repository"
)

func seedUsers(t *testing.T, repo repository.UserRepository, ids ...string) {
	t.Helper()
	for _, id := range ids {
		u := testUser(id)
		u.Email = id + "@x"
		require.NoError(t, repo.Create(context.Background(), u))
	}
}

func TestGroupService_CreateResolvesKnownEmails(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	seedUsers(t, users, "creator", "known")
	svc := NewGroupService(zap.NewNop(), users, repository.NewMemoryGroupRepository())

	group, err := svc.Create(ctx, "creator", "Flat", []string{"known@x", "unknown@x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"creator", "known"}, group.Members)
	assert.Equal(t, "creator", group.CreatorID)
	assert.NotEmpty(t, group.ID)
}

func TestGroupService_CreateCollapsesDuplicates(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	seedUsers(t, users, "creator", "b")
	svc := NewGroupService(zap.NewNop(), users, repository.NewMemoryGroupRepository())

	group, err := svc.Create(ctx, "creator", "Trip", []string{"b@x", "creator@x", " b@x ", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"creator", "b"}, group.Members)
}

func TestGroupService_CreateValidation(t *testing.T) {
	svc := NewGroupService(zap.NewNop(), repository.NewMemoryUserRepository(), repository.NewMemoryGroupRepository())
	_, err := svc.Create(context.Background(), "creator", " ", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGroupService_CreatePropagatesLookupFailure(t *testing.T) {
	users := newMockUserRepo()
	users.getByEmailErr = errors.New("db down")
	svc := NewGroupService(zap.NewNop(), users, repository.NewMemoryGroupRepository())
	_, err := svc.Create(context.Background(), "creator", "Flat", []string{"b@x"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestGroupService_ListByMembership(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	seedUsers(t, users, "a", "b", "c")
	svc := NewGroupService(zap.NewNop(), users, repository.NewMemoryGroupRepository())

	_, err := svc.Create(ctx, "a", "AB", []string{"b@x"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "c", "C only", nil)
	require.NoError(t, err)

	groups, err := svc.List(ctx, "b")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "AB", groups[0].Name)
	assert.True(t, groups[0].HasMember("a"))

	none, err := svc.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, []domain.SharedGroup{}, none)
}
