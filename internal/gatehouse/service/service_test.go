package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
	"github.com/arborlabs/gatehouse/internal/gatehouse/service"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store/drivers/memory"
	"github.com/arborlabs/gatehouse/pkg/cryptox"
	"github.com/arborlabs/gatehouse/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type captureSender struct {
	last    domain.Challenge
	lastTo  domain.Email
	failErr error
}

func (s *captureSender) SendCode(_ context.Context, email domain.Email, challenge domain.Challenge) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.lastTo = email
	s.last = challenge
	return nil
}

func newTestAuth(t *testing.T) (*service.AuthService, *captureSender) {
	t.Helper()

	hasher := cryptox.NewHasher(2)
	t.Cleanup(hasher.Close)

	signer, err := jwtx.NewHS256(testSecret, "gatehouse-test")
	require.NoError(t, err)

	sender := &captureSender{}
	auth := &service.AuthService{
		Credentials: memory.NewCredentialStore(hasher),
		Challenges:  memory.NewChallengeStore(10 * time.Minute),
		Sessions: &service.SessionService{
			Signer:   signer,
			Revoked:  memory.NewRevokedTokenStore(),
			TokenTTL: 10 * time.Minute,
		},
		Hasher: hasher,
		Sender: sender,
	}
	return auth, sender
}

func mustEmail(t *testing.T, raw string) domain.Email {
	t.Helper()
	email, err := domain.ParseEmail(raw)
	require.NoError(t, err)
	return email
}

func mustPassword(t *testing.T, raw string) domain.Password {
	t.Helper()
	p, err := domain.ParsePassword(raw)
	require.NoError(t, err)
	return p
}

func TestSignup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	auth, _ := newTestAuth(t)

	email := mustEmail(t, "u1@example.com")
	password := mustPassword(t, "password123")

	require.NoError(t, auth.Signup(ctx, email, password, false))

	t.Run("duplicate signup conflicts", func(t *testing.T) {
		err := auth.Signup(ctx, email, password, false)
		require.ErrorIs(t, err, service.ErrUserAlreadyExists)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	auth, _ := newTestAuth(t)

	email := mustEmail(t, "u1@example.com")
	password := mustPassword(t, "password123")
	require.NoError(t, auth.Signup(ctx, email, password, false))

	t.Run("issues a token", func(t *testing.T) {
		result, err := auth.Login(ctx, email, password)
		require.NoError(t, err)
		require.False(t, result.TwoFARequired)
		require.NotEmpty(t, result.Token)

		require.NoError(t, auth.VerifyToken(ctx, result.Token))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login(ctx, email, mustPassword(t, "wrongpassword"))
		require.ErrorIs(t, err, service.ErrIncorrectCredentials)
	})

	t.Run("unknown account looks like wrong password", func(t *testing.T) {
		_, err := auth.Login(ctx, mustEmail(t, "ghost@example.com"), password)
		require.ErrorIs(t, err, service.ErrIncorrectCredentials)
	})
}

func TestLoginWith2FA(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	auth, sender := newTestAuth(t)

	email := mustEmail(t, "u1@example.com")
	password := mustPassword(t, "password123")
	require.NoError(t, auth.Signup(ctx, email, password, true))

	result, err := auth.Login(ctx, email, password)
	require.NoError(t, err)
	require.True(t, result.TwoFARequired)
	require.Empty(t, result.Token)
	require.Equal(t, email, sender.lastTo)
	require.Equal(t, result.LoginAttemptID, sender.last.AttemptID)

	t.Run("second login conflicts while challenge pending", func(t *testing.T) {
		_, err := auth.Login(ctx, email, password)
		require.ErrorIs(t, err, service.ErrChallengePending)
	})

	t.Run("wrong code rejected, challenge survives", func(t *testing.T) {
		wrong, err := domain.ParseTwoFACode("000000")
		require.NoError(t, err)
		if wrong.Equal(sender.last.Code) {
			wrong, err = domain.ParseTwoFACode("000001")
			require.NoError(t, err)
		}

		_, err = auth.Verify2FA(ctx, email, result.LoginAttemptID, wrong)
		require.ErrorIs(t, err, service.ErrIncorrectCredentials)
	})

	t.Run("wrong attempt id rejected", func(t *testing.T) {
		_, err := auth.Verify2FA(ctx, email, domain.NewLoginAttemptID(), sender.last.Code)
		require.ErrorIs(t, err, service.ErrIncorrectCredentials)
	})

	t.Run("correct code issues a token once", func(t *testing.T) {
		token, err := auth.Verify2FA(ctx, email, result.LoginAttemptID, sender.last.Code)
		require.NoError(t, err)
		require.NoError(t, auth.VerifyToken(ctx, token))

		// Challenge is single use.
		_, err = auth.Verify2FA(ctx, email, result.LoginAttemptID, sender.last.Code)
		require.ErrorIs(t, err, service.ErrIncorrectCredentials)
	})
}

func TestVerify2FAConcurrentRedemption(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	auth, sender := newTestAuth(t)

	email := mustEmail(t, "u1@example.com")
	password := mustPassword(t, "password123")
	require.NoError(t, auth.Signup(ctx, email, password, true))

	result, err := auth.Login(ctx, email, password)
	require.NoError(t, err)
	require.True(t, result.TwoFARequired)

	// Race several correct redemptions; the challenge is single use, so
	// exactly one may win a token.
	const attempts = 8
	outcomes := make(chan error, attempts)
	for range attempts {
		go func() {
			_, err := auth.Verify2FA(ctx, email, result.LoginAttemptID, sender.last.Code)
			outcomes <- err
		}()
	}

	var succeeded int
	for range attempts {
		if err := <-outcomes; err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, service.ErrIncorrectCredentials)
		}
	}
	require.Equal(t, 1, succeeded)
}

func TestLoginSenderFailureRollsBackChallenge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	auth, sender := newTestAuth(t)

	email := mustEmail(t, "u1@example.com")
	password := mustPassword(t, "password123")
	require.NoError(t, auth.Signup(ctx, email, password, true))

	sender.failErr = errors.New("smtp down")
	_, err := auth.Login(ctx, email, password)
	require.Error(t, err)

	// The failed attempt must not leave a pending challenge behind.
	sender.failErr = nil
	result, err := auth.Login(ctx, email, password)
	require.NoError(t, err)
	require.True(t, result.TwoFARequired)
}

func TestLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	auth, _ := newTestAuth(t)

	email := mustEmail(t, "u1@example.com")
	password := mustPassword(t, "password123")
	require.NoError(t, auth.Signup(ctx, email, password, false))

	result, err := auth.Login(ctx, email, password)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, result.Token))

	t.Run("revoked token fails validation", func(t *testing.T) {
		require.ErrorIs(t, auth.VerifyToken(ctx, result.Token), service.ErrInvalidToken)
	})

	t.Run("second logout with the same token is rejected", func(t *testing.T) {
		require.ErrorIs(t, auth.Logout(ctx, result.Token), service.ErrInvalidToken)
	})

	t.Run("missing token", func(t *testing.T) {
		require.ErrorIs(t, auth.Logout(ctx, ""), service.ErrMissingToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		require.ErrorIs(t, auth.Logout(ctx, "not-a-jwt"), service.ErrInvalidToken)
	})
}

func TestVerifyToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	auth, _ := newTestAuth(t)

	t.Run("missing token", func(t *testing.T) {
		require.ErrorIs(t, auth.VerifyToken(ctx, ""), service.ErrMissingToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		require.ErrorIs(t, auth.VerifyToken(ctx, "not-a-jwt"), service.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		signer, err := jwtx.NewHS256(testSecret, "gatehouse-test")
		require.NoError(t, err)

		claims := jwtx.NewSessionClaims("u1@example.com", "gatehouse-test",
			10*time.Minute, time.Now().Add(-time.Hour))
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		require.ErrorIs(t, auth.VerifyToken(ctx, token), service.ErrInvalidToken)
	})
}
