package domain

import (
	"errors"

	"github.com/arborlabs/gatehouse/pkg/secretx"
)

// MinPasswordLength is exclusive: a password must be strictly longer.
const MinPasswordLength = 8

var ErrInvalidPassword = errors.New("domain: invalid password")

// Password is a validated plaintext password supplied by a user. It exists
// only transiently between input parsing and hashing; the persisted value is
// always the argon2 hash. The secretx wrapper keeps it out of logs and JSON.
type Password struct {
	s secretx.Secret
}

// ParsePassword validates raw untrusted input, requiring length > 8.
func ParsePassword(raw string) (Password, error) {
	if len(raw) <= MinPasswordLength {
		return Password{}, ErrInvalidPassword
	}
	return Password{s: secretx.New(raw)}, nil
}

// Expose returns the plaintext. Only the hashing service should call this.
func (p Password) Expose() string { return p.s.Expose() }

func (p Password) IsZero() bool { return p.s.IsZero() }

// String redacts; Password must never stringify to its plaintext.
func (p Password) String() string { return p.s.String() }
