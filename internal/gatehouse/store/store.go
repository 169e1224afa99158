// Package store defines the capability interfaces the authentication flow
// depends on. Concrete drivers (memory, sqlite, postgres, redis) implement
// these; the services never see a concrete backend.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
)

var (
	ErrNotFound           = errors.New("store: not found")
	ErrAlreadyExists      = errors.New("store: already exists")
	ErrInvalidCredentials = errors.New("store: invalid credentials")
)

// Credentials owns user records keyed by email.
type Credentials interface {
	// AddUser inserts a new user. Returns ErrAlreadyExists if the email is
	// taken; existing records are never overwritten.
	AddUser(ctx context.Context, u domain.User) error

	// GetUser returns the user for an email, or ErrNotFound.
	GetUser(ctx context.Context, email domain.Email) (domain.User, error)

	// ValidateUser compares the supplied password against the stored hash.
	// Returns ErrNotFound for an unknown email and ErrInvalidCredentials on
	// hash mismatch. Implementations must never compare plaintext to
	// plaintext.
	ValidateUser(ctx context.Context, email domain.Email, password domain.Password) error
}

// RevokedTokens is the session token ban list. Entries carry a TTL matching
// the token's remaining natural lifetime so the set never grows unboundedly.
type RevokedTokens interface {
	// Revoke marks a token string as banned for ttl. Returns
	// ErrAlreadyExists if the token is already banned.
	Revoke(ctx context.Context, token string, ttl time.Duration) error

	// Check returns nil when the token IS present in the banned set, and
	// ErrNotFound when it is not. Callers invert this to decide validity.
	Check(ctx context.Context, token string) error
}

// Challenges holds pending two-factor challenges, at most one per email.
type Challenges interface {
	// AddCode stores a pending challenge. Returns ErrAlreadyExists if one is
	// already pending for the email; the existing challenge is left intact.
	AddCode(ctx context.Context, email domain.Email, ch domain.Challenge) error

	// GetCode returns the pending challenge for an email, or ErrNotFound
	// once it has expired or been consumed.
	GetCode(ctx context.Context, email domain.Email) (domain.Challenge, error)

	// RemoveCode deletes the pending challenge. Removing an absent
	// challenge is not an error.
	RemoveCode(ctx context.Context, email domain.Email) error

	// ConsumeCode atomically deletes the pending challenge if it still
	// equals ch. Returns ErrNotFound when no matching challenge is
	// pending, including when a concurrent caller consumed it first.
	ConsumeCode(ctx context.Context, email domain.Email, ch domain.Challenge) error
}

// Pinger is implemented by drivers backed by an external system; readiness
// probes use it.
type Pinger interface {
	Ping(ctx context.Context) error
}
