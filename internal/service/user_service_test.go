package service

import (
	"context"
	"testing"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/errs"
	"gymhero/training-api/internal/policy"
	"gymhero/training-api/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_SuperuserOnly(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	users := NewUserService(w.store.Users, plainHasher{}, zerolog.Nop())

	_, err := users.List(ctx, w.alice, repository.FirstPage())
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = users.Get(ctx, w.alice, w.alice.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = users.Create(ctx, nil, UserInput{Email: "x@example.com", Password: "password123"})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	all, err := users.List(ctx, w.superuser, repository.FirstPage())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	users := NewUserService(w.store.Users, plainHasher{}, zerolog.Nop())

	name := "Carol"
	carol, err := users.Create(ctx, w.superuser, UserInput{Email: " carol@example.com ", Password: "password123", FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", carol.Email)
	assert.Equal(t, "hashed:password123", carol.HashedPassword)
	assert.True(t, carol.IsActive)
	assert.False(t, carol.IsSuperuser)

	_, err = users.Create(ctx, w.superuser, UserInput{Email: "carol@example.com", Password: "password123"})
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, "The user with this carol@example.com already exists in the system", errs.MessageOf(err))

	_, err = users.Create(ctx, w.superuser, UserInput{Email: "dave@example.com", Password: "short"})
	assert.ErrorIs(t, err, errs.ErrInvalid)

	inactive := false
	dave, err := users.Create(ctx, w.superuser, UserInput{Email: "dave@example.com", Password: "password123", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, dave.IsActive)

	found, err := users.GetByEmail(ctx, w.superuser, "dave@example.com")
	require.NoError(t, err)
	assert.Equal(t, dave.ID, found.ID)
	_, err = users.GetByEmail(ctx, w.superuser, "eve@example.com")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	users := NewUserService(w.store.Users, plainHasher{}, zerolog.Nop())

	updated, err := users.Update(ctx, w.superuser, w.alice.ID, domain.UserPatch{Password: domain.Some("new-password")})
	require.NoError(t, err)
	assert.Equal(t, "hashed:new-password", updated.HashedPassword)
	assert.Equal(t, w.alice.Email, updated.Email)

	_, err = users.Update(ctx, w.superuser, w.alice.ID, domain.UserPatch{Email: domain.Some("bob@example.com")})
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = users.Update(ctx, w.superuser, 999, domain.UserPatch{IsActive: domain.Some(false)})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	users := NewUserService(w.store.Users, plainHasher{}, zerolog.Nop())

	_, err := users.Delete(ctx, w.superuser, w.superuser.ID)
	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, policy.MsgSelfDelete, errs.MessageOf(err))

	w.exercise(t, w.alice, "Squat")
	_, err = users.Delete(ctx, w.superuser, w.alice.ID)
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Contains(t, errs.MessageOf(err), "still owns")

	deleted, err := users.Delete(ctx, w.superuser, w.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, w.bob.ID, deleted.ID)

	_, err = users.Get(ctx, w.superuser, w.bob.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserService_EnsureSuperuser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	users := NewUserService(s.Users, plainHasher{}, zerolog.Nop())

	created, err := users.EnsureSuperuser(ctx, "root@example.com", "password123", "Root")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = users.EnsureSuperuser(ctx, "root@example.com", "password123", "Root")
	require.NoError(t, err)
	assert.False(t, created)

	root, err := s.Users.GetOne(ctx, repository.By("email", "root@example.com"))
	require.NoError(t, err)
	assert.True(t, root.IsSuperuser)
	assert.True(t, root.IsActive)
	require.NotNil(t, root.FullName)
	assert.Equal(t, "Root", *root.FullName)
}
