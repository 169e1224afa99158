package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store"
	"github.com/arborlabs/gatehouse/pkg/jwtx"
)

// CookieName is the cookie the session token travels in.
const CookieName = "jwt"

var (
	ErrTokenExpired   = errors.New("token_expired")
	ErrTokenMalformed = errors.New("token_malformed")
	ErrTokenRevoked   = errors.New("token_revoked")
)

// SessionService issues, validates and revokes the signed session tokens
// backing logged-in browser sessions.
type SessionService struct {
	Signer   *jwtx.HS256
	Revoked  store.RevokedTokens
	TokenTTL time.Duration
}

// Issue signs a fresh session token for the given account.
func (s *SessionService) Issue(email domain.Email) (string, error) {
	claims := jwtx.NewSessionClaims(email.String(), s.Signer.Issuer(), s.TokenTTL, time.Now())
	return s.Signer.Sign(claims)
}

// Validate checks the token signature and expiry, then checks the
// revocation list. A revoked token fails for the rest of its lifetime.
func (s *SessionService) Validate(ctx context.Context, token string) (jwtx.SessionClaims, error) {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, jwtx.ErrExpired):
			return jwtx.SessionClaims{}, ErrTokenExpired
		default:
			return jwtx.SessionClaims{}, ErrTokenMalformed
		}
	}

	err = s.Revoked.Check(ctx, token)
	switch {
	case err == nil:
		return jwtx.SessionClaims{}, ErrTokenRevoked
	case errors.Is(err, store.ErrNotFound):
		return claims, nil
	default:
		return jwtx.SessionClaims{}, err
	}
}

// Revoke puts a valid token on the revocation list for its remaining
// lifetime. An already revoked token fails with ErrTokenRevoked.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, jwtx.ErrExpired):
			return ErrTokenExpired
		default:
			return ErrTokenMalformed
		}
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return ErrTokenExpired
	}

	if err := s.Revoked.Revoke(ctx, token, remaining); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrTokenRevoked
		}
		return err
	}
	return nil
}

// Cookie wraps a session token in the auth cookie.
func (s *SessionService) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie returns a cookie that clears the auth cookie on the client.
func (s *SessionService) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
