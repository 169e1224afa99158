package cryptox_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/arborlabs/gatehouse/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
	require.NotContains(t, hash, "correct horse")

	require.NoError(t, cryptox.VerifyPassword("correct horse battery staple", hash))
	require.ErrorIs(t, cryptox.VerifyPassword("wrong password", hash), cryptox.ErrMismatch)
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	t.Parallel()

	a, err := cryptox.HashPassword("password123")
	require.NoError(t, err)
	b, err := cryptox.HashPassword("password123")
	require.NoError(t, err)

	// Fresh salt per hash, so two hashes of the same input differ.
	require.NotEqual(t, a, b)
	require.NoError(t, cryptox.VerifyPassword("password123", a))
	require.NoError(t, cryptox.VerifyPassword("password123", b))
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!",
		"$argon2id$v=19$bogus$c2FsdA$aGFzaA",
	}
	for _, encoded := range cases {
		err := cryptox.VerifyPassword("anything", encoded)
		require.ErrorIs(t, err, cryptox.ErrInvalidHash, "hash %q", encoded)
	}
}

func TestHasherPool(t *testing.T) {
	t.Parallel()

	h := cryptox.NewHasher(2)
	defer h.Close()

	ctx := context.Background()

	hash, err := h.Hash(ctx, "pooled-password-1")
	require.NoError(t, err)
	require.NoError(t, h.Verify(ctx, hash, "pooled-password-1"))
	require.ErrorIs(t, h.Verify(ctx, hash, "nope"), cryptox.ErrMismatch)
}

func TestHasherConcurrent(t *testing.T) {
	t.Parallel()

	h := cryptox.NewHasher(4)
	defer h.Close()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			pw := strings.Repeat("x", n+9)
			hash, err := h.Hash(context.Background(), pw)
			require.NoError(t, err)
			require.NoError(t, h.Verify(context.Background(), hash, pw))
		}(i)
	}
	wg.Wait()
}

func TestHasherRespectsCancellation(t *testing.T) {
	t.Parallel()

	h := cryptox.NewHasher(1)
	defer h.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "whatever-password")
	require.ErrorIs(t, err, context.Canceled)
}

func TestHasherClosed(t *testing.T) {
	t.Parallel()

	h := cryptox.NewHasher(1)
	h.Close()

	_, err := h.Hash(context.Background(), "whatever-password")
	require.ErrorIs(t, err, cryptox.ErrClosed)
}
