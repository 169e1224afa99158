package domain

import (
	"errors"
	"strings"
)

var ErrInvalidEmail = errors.New("domain: invalid email")

// Email is a validated email address. It is the unique identity key for
// user records, so equality is plain value equality on the parsed string.
type Email struct {
	v string
}

// ParseEmail validates raw untrusted input. The format check is deliberately
// loose: an address must contain both "@" and ".".
func ParseEmail(raw string) (Email, error) {
	s := strings.TrimSpace(raw)
	if s == "" || !strings.Contains(s, "@") || !strings.Contains(s, ".") {
		return Email{}, ErrInvalidEmail
	}
	return Email{v: s}, nil
}

func (e Email) String() string { return e.v }

func (e Email) IsZero() bool { return e.v == "" }
