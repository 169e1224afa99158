package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store/drivers/sqlite"
	"github.com/arborlabs/gatehouse/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*sqlite.Store, *cryptox.Hasher) {
	t.Helper()

	hasher := cryptox.NewHasher(2)
	t.Cleanup(hasher.Close)

	dsn := filepath.Join(t.TempDir(), "gatehouse.db")
	s, err := sqlite.NewStore(dsn, hasher)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s, hasher
}

func TestCredentials(t *testing.T) {
	ctx := context.Background()
	s, hasher := newTestStore(t)
	creds := s.Credentials()

	email, err := domain.ParseEmail("u1@example.com")
	require.NoError(t, err)
	password, err := domain.ParsePassword("password123")
	require.NoError(t, err)

	hash, err := hasher.Hash(ctx, password.Expose())
	require.NoError(t, err)

	user := domain.User{Email: email, PasswordHash: hash, Requires2FA: true}
	require.NoError(t, creds.AddUser(ctx, user))

	t.Run("duplicate email rejected", func(t *testing.T) {
		require.ErrorIs(t, creds.AddUser(ctx, user), store.ErrAlreadyExists)
	})

	t.Run("get user", func(t *testing.T) {
		got, err := creds.GetUser(ctx, email)
		require.NoError(t, err)
		require.Equal(t, user, got)
	})

	t.Run("missing user", func(t *testing.T) {
		missing, err := domain.ParseEmail("missing@example.com")
		require.NoError(t, err)

		_, err = creds.GetUser(ctx, missing)
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, creds.ValidateUser(ctx, missing, password), store.ErrNotFound)
	})

	t.Run("validate user", func(t *testing.T) {
		require.NoError(t, creds.ValidateUser(ctx, email, password))

		wrong, err := domain.ParsePassword("wrongpassword")
		require.NoError(t, err)
		require.ErrorIs(t, creds.ValidateUser(ctx, email, wrong), store.ErrInvalidCredentials)
	})
}

func TestPing(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
