package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uptrack-app/uptrack/internal/mailer"
	"github.com/uptrack-app/uptrack/internal/storage/memory"
)

func newTestAuthService(store *memory.Store) AuthService {
	return NewAuthService(
		zerolog.Nop(),
		store.Users(),
		mailer.Noop{},
		"uptrack-test",
		[]byte("test-signing-key"),
		time.Hour,
	)
}

func TestAuthService_RegisterConfirmLogin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	auth := newTestAuthService(store)

	user, err := auth.Register(ctx, RegisterParams{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.False(t, user.Confirmed)
	assert.NotEmpty(t, user.Token)
	assert.NotEqual(t, "correct-horse", user.Password, "password must be stored hashed")

	_, err = auth.Register(ctx, RegisterParams{
		Name:     "Ada Again",
		Email:    "ada@example.com",
		Password: "whatever-else",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = auth.Login(ctx, LoginParams{Email: "ada@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrUserNotConfirmed)

	require.NoError(t, auth.Confirm(ctx, user.Token))

	stored, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Confirmed)
	assert.Empty(t, stored.Token, "the one-time token is consumed on confirmation")

	// The token is single-use.
	assert.ErrorIs(t, auth.Confirm(ctx, user.Token), ErrTokenInvalid)

	_, err = auth.Login(ctx, LoginParams{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUserPasswordMismatch)

	result, err := auth.Login(ctx, LoginParams{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.Profile.ID)
	assert.NotEmpty(t, result.Token)

	_, err = auth.Login(ctx, LoginParams{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Resolve(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	auth := newTestAuthService(store)

	user, err := auth.Register(ctx, RegisterParams{
		Name:     "Grace",
		Email:    "grace@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NoError(t, auth.Confirm(ctx, user.Token))

	result, err := auth.Login(ctx, LoginParams{Email: "grace@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	principal, err := auth.Resolve(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, "Grace", principal.Name)
	assert.Equal(t, "grace@example.com", principal.Email)

	_, err = auth.Resolve(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// A token signed with a different key must not resolve.
	other := NewAuthService(
		zerolog.Nop(),
		store.Users(),
		mailer.Noop{},
		"uptrack-test",
		[]byte("another-signing-key"),
		time.Hour,
	)
	_, err = other.Resolve(ctx, result.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAuthService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	auth := newTestAuthService(store)

	user, err := auth.Register(ctx, RegisterParams{
		Name:     "Linus",
		Email:    "linus@example.com",
		Password: "old-password",
	})
	require.NoError(t, err)
	require.NoError(t, auth.Confirm(ctx, user.Token))

	assert.ErrorIs(t, auth.ForgotPassword(ctx, "nobody@example.com"), ErrUserNotFound)
	require.NoError(t, auth.ForgotPassword(ctx, "linus@example.com"))

	stored, err := store.Users().GetByEmail(ctx, "linus@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, stored.Token)

	require.NoError(t, auth.CheckResetToken(ctx, stored.Token))
	assert.ErrorIs(t, auth.CheckResetToken(ctx, "bogus"), ErrTokenInvalid)

	require.NoError(t, auth.ResetPassword(ctx, stored.Token, "new-password"))

	// Token consumed, old password invalidated.
	assert.ErrorIs(t, auth.CheckResetToken(ctx, stored.Token), ErrTokenInvalid)
	_, err = auth.Login(ctx, LoginParams{Email: "linus@example.com", Password: "old-password"})
	assert.ErrorIs(t, err, ErrUserPasswordMismatch)

	_, err = auth.Login(ctx, LoginParams{Email: "linus@example.com", Password: "new-password"})
	assert.NoError(t, err)
}
