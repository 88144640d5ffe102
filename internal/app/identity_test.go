package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelhub/internal/domain"
)

type staticIssuer struct{}

func (staticIssuer) Issue(u domain.User) (string, error) { return "tok-" + u.ID, nil }

func validRegister() RegisterInput {
	return RegisterInput{
		Username: "amina",
		Email:    "amina@example.com",
		Password: "s3cret!",
		FullName: "Amina Yusuf",
		Phone:    "+256700000001",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a student and returns a token", func(t *testing.T) {
		store := newMemStore()
		svc := NewIdentityService(store, staticIssuer{})

		tok, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)
		assert.NotEmpty(t, tok)

		u, err := store.GetUserByEmail(ctx, "amina@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleStudent, u.Role)
		assert.NotEqual(t, "s3cret!", u.PasswordHash, "password must be hashed")
	})

	t.Run("short password rejected", func(t *testing.T) {
		store := newMemStore()
		svc := NewIdentityService(store, staticIssuer{})
		in := validRegister()
		in.Password = "abc"

		_, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		store := newMemStore()
		svc := NewIdentityService(store, staticIssuer{})

		_, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)

		in := validRegister()
		in.Username = "someone-else"
		_, err = svc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		store := newMemStore()
		svc := NewIdentityService(store, staticIssuer{})

		_, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)

		in := validRegister()
		in.Email = "other@example.com"
		_, err = svc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewIdentityService(store, staticIssuer{})
	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		tok, err := svc.Login(ctx, "amina@example.com", "s3cret!")
		require.NoError(t, err)
		assert.NotEmpty(t, tok)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "amina@example.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("unknown email does not leak existence", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "s3cret!")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}

func TestUsersListing(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewIdentityService(store, staticIssuer{})
	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, err = svc.Users(ctx, domain.Identity{UserID: "u1", Role: domain.RoleStudent})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	users, err := svc.Users(ctx, domain.Identity{UserID: "boss", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
