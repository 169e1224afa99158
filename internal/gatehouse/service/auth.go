package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store"
	"github.com/arborlabs/gatehouse/pkg/cryptox"
	"github.com/arborlabs/gatehouse/pkg/slogx"
)

var (
	ErrIncorrectCredentials = errors.New("incorrect_credentials")
	ErrUserAlreadyExists    = errors.New("user_already_exists")
	ErrChallengePending     = errors.New("challenge_pending")
	ErrMissingToken         = errors.New("missing_token")
	ErrInvalidToken         = errors.New("invalid_token")
)

// AuthService drives the credential lifecycle, signup through logout.
type AuthService struct {
	Credentials store.Credentials
	Challenges  store.Challenges
	Sessions    *SessionService
	Hasher      *cryptox.Hasher
	Sender      CodeSender
}

// LoginResult is the outcome of a successful password check. Either a
// session token was issued, or a 2FA challenge is pending and the caller
// must come back with the code.
type LoginResult struct {
	TwoFARequired  bool
	LoginAttemptID domain.LoginAttemptID
	Token          string
}

// Signup registers a new account. The password is hashed off the request
// goroutine before the user is stored.
func (s *AuthService) Signup(ctx context.Context, email domain.Email, password domain.Password, requires2FA bool) error {
	hash, err := s.Hasher.Hash(ctx, password.Expose())
	if err != nil {
		return err
	}

	err = s.Credentials.AddUser(ctx, domain.User{
		Email:        email,
		PasswordHash: hash,
		Requires2FA:  requires2FA,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return ErrUserAlreadyExists
	}
	return err
}

// Login checks the password and either issues a session token or opens a
// 2FA challenge. Unknown accounts and wrong passwords are not
// distinguished.
func (s *AuthService) Login(ctx context.Context, email domain.Email, password domain.Password) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Credentials.GetUser(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, ErrIncorrectCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.Credentials.ValidateUser(ctx, email, password); err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) || errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrIncorrectCredentials
		}
		return LoginResult{}, err
	}

	if !user.Requires2FA {
		token, err := s.Sessions.Issue(email)
		if err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Token: token}, nil
	}

	code, err := domain.NewTwoFACode()
	if err != nil {
		return LoginResult{}, err
	}
	challenge := domain.Challenge{
		AttemptID: domain.NewLoginAttemptID(),
		Code:      code,
	}

	if err := s.Challenges.AddCode(ctx, email, challenge); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return LoginResult{}, ErrChallengePending
		}
		return LoginResult{}, err
	}

	if err := s.Sender.SendCode(ctx, email, challenge); err != nil {
		// Undo the pending challenge so the user is not locked out of
		// retrying until the TTL runs down.
		if rmErr := s.Challenges.RemoveCode(ctx, email); rmErr != nil {
			l.Error("failed to roll back 2fa challenge",
				slog.String("email", email.String()), slog.Any("error", rmErr))
		}
		return LoginResult{}, err
	}

	return LoginResult{
		TwoFARequired:  true,
		LoginAttemptID: challenge.AttemptID,
	}, nil
}

// Verify2FA redeems a pending challenge. The attempt id and code must both
// match, and a challenge is single use.
func (s *AuthService) Verify2FA(ctx context.Context, email domain.Email, attemptID domain.LoginAttemptID, code domain.TwoFACode) (string, error) {
	challenge, err := s.Challenges.GetCode(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrIncorrectCredentials
	}
	if err != nil {
		return "", err
	}

	if challenge.AttemptID != attemptID || !challenge.Code.Equal(code) {
		return "", ErrIncorrectCredentials
	}

	// Consume atomically so concurrent redemptions of the same challenge
	// cannot all win.
	if err := s.Challenges.ConsumeCode(ctx, email, challenge); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrIncorrectCredentials
		}
		return "", err
	}

	return s.Sessions.Issue(email)
}

// Logout revokes the session token for the rest of its lifetime. The token
// must still be valid, logging out twice with the same cookie fails the
// second time.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingToken
	}

	if _, err := s.Sessions.Validate(ctx, token); err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired),
			errors.Is(err, ErrTokenMalformed),
			errors.Is(err, ErrTokenRevoked):
			return ErrInvalidToken
		default:
			return err
		}
	}

	if err := s.Sessions.Revoke(ctx, token); err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired), errors.Is(err, ErrTokenMalformed), errors.Is(err, ErrTokenRevoked):
			return ErrInvalidToken
		default:
			return err
		}
	}
	return nil
}

// VerifyToken reports whether a session token is still good.
func (s *AuthService) VerifyToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingToken
	}

	if _, err := s.Sessions.Validate(ctx, token); err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired),
			errors.Is(err, ErrTokenMalformed),
			errors.Is(err, ErrTokenRevoked):
			return ErrInvalidToken
		default:
			return err
		}
	}
	return nil
}
