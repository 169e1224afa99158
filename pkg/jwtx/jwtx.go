// Package jwtx signs and verifies the session tokens issued after a
// successful login. Tokens are HS256 JWTs carrying the authenticated email
// as subject and an absolute expiry.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arborlabs/gatehouse/pkg/idx"
)

// MinSecretLength is the smallest accepted HMAC secret, matching the HS256
// block-input recommendation of at least 256 bits.
const MinSecretLength = 32

var (
	ErrMalformed      = errors.New("jwtx: malformed token")
	ErrExpired        = errors.New("jwtx: token expired")
	ErrInvalidSig     = errors.New("jwtx: invalid signature")
	ErrIssuer         = errors.New("jwtx: issuer mismatch")
	ErrSecretTooShort = errors.New("jwtx: secret shorter than 32 bytes")
)

// SessionClaims are the claims carried by a session token. Nothing beyond
// the registered set is needed: the subject is the email, jti makes tokens
// unique so revocation bans exactly one issuance.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// NewSessionClaims builds claims for a token issued at now with the given
// lifetime.
func NewSessionClaims(subject, issuer string, ttl time.Duration, now time.Time) SessionClaims {
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.New().String(),
		},
	}
}

// HS256 signs and verifies session tokens with a shared HMAC secret.
type HS256 struct {
	secret []byte
	issuer string
}

// NewHS256 validates the secret and returns a signer/verifier pair in one
// value. issuer may be empty, in which case the claim is neither set nor
// enforced.
func NewHS256(secret []byte, issuer string) (*HS256, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	return &HS256{secret: secret, issuer: issuer}, nil
}

// Issuer returns the issuer claim this signer sets and enforces.
func (h *HS256) Issuer() string { return h.issuer }

// Sign produces a compact signed token for the claims.
func (h *HS256) Sign(claims SessionClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}

// Verify parses and validates a token, returning its claims. Errors are
// collapsed into the package sentinels so callers can switch on them.
func (h *HS256) Verify(token string) (SessionClaims, error) {
	var claims SessionClaims

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}

	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return h.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return SessionClaims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return SessionClaims{}, ErrInvalidSig
		default:
			return SessionClaims{}, ErrMalformed
		}
	}

	if h.issuer != "" && claims.Issuer != h.issuer {
		return SessionClaims{}, ErrIssuer
	}

	return claims, nil
}
