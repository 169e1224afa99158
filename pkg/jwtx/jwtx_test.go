package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/arborlabs/gatehouse/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestNewHS256RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewHS256([]byte("too short"), "gatehouse")
	require.ErrorIs(t, err, jwtx.ErrSecretTooShort)
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	h, err := jwtx.NewHS256(testSecret, "gatehouse")
	require.NoError(t, err)

	claims := jwtx.NewSessionClaims("u1@example.com", "gatehouse", 10*time.Minute, time.Now())
	token, err := h.Sign(claims)
	require.NoError(t, err)
	require.Equal(t, 3, len(strings.Split(token, ".")))

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "u1@example.com", got.Subject)
	require.NotEmpty(t, got.ID, "jti should be set")
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	h, err := jwtx.NewHS256(testSecret, "")
	require.NoError(t, err)

	claims := jwtx.NewSessionClaims("u1@example.com", "", time.Minute, time.Now().Add(-time.Hour))
	token, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewHS256(testSecret, "")
	require.NoError(t, err)
	verifier, err := jwtx.NewHS256([]byte("ffffffffffffffffffffffffffffffff"), "")
	require.NoError(t, err)

	token, err := signer.Sign(jwtx.NewSessionClaims("u1@example.com", "", time.Minute, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyGarbage(t *testing.T) {
	t.Parallel()

	h, err := jwtx.NewHS256(testSecret, "")
	require.NoError(t, err)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := h.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrMalformed, "token %q", raw)
	}
}

func TestVerifyIssuerMismatch(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewHS256(testSecret, "other-issuer")
	require.NoError(t, err)
	verifier, err := jwtx.NewHS256(testSecret, "gatehouse")
	require.NoError(t, err)

	token, err := signer.Sign(jwtx.NewSessionClaims("u1@example.com", "other-issuer", time.Minute, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}
