package domain

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

var (
	ErrInvalidLoginAttemptID = errors.New("domain: invalid login attempt id")
	ErrInvalidTwoFACode      = errors.New("domain: invalid 2fa code")
)

// TwoFACodeDigits is the fixed width of a generated challenge code.
const TwoFACodeDigits = 6

// LoginAttemptID identifies one pending two-factor challenge. It is generated
// server-side per login attempt and must be echoed back unchanged by the
// client when completing the challenge.
type LoginAttemptID struct {
	v uuid.UUID
}

// NewLoginAttemptID returns a fresh random attempt id.
func NewLoginAttemptID() LoginAttemptID {
	return LoginAttemptID{v: uuid.New()}
}

// ParseLoginAttemptID validates raw untrusted input as a UUID.
func ParseLoginAttemptID(raw string) (LoginAttemptID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return LoginAttemptID{}, ErrInvalidLoginAttemptID
	}
	return LoginAttemptID{v: id}, nil
}

func (id LoginAttemptID) String() string { return id.v.String() }

func (id LoginAttemptID) IsZero() bool { return id.v == uuid.Nil }

// TwoFACode is a 6-digit challenge code bound to (email, LoginAttemptID).
// Codes are single-use and expire after a fixed TTL.
type TwoFACode struct {
	v string
}

// NewTwoFACode generates a uniformly random 6-digit code from a
// cryptographic source.
func NewTwoFACode() (TwoFACode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return TwoFACode{}, fmt.Errorf("generate 2fa code: %w", err)
	}
	return TwoFACode{v: fmt.Sprintf("%06d", n.Int64())}, nil
}

// ParseTwoFACode validates raw untrusted input: exactly six ASCII digits.
func ParseTwoFACode(raw string) (TwoFACode, error) {
	if len(raw) != TwoFACodeDigits {
		return TwoFACode{}, ErrInvalidTwoFACode
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return TwoFACode{}, ErrInvalidTwoFACode
		}
	}
	return TwoFACode{v: raw}, nil
}

func (c TwoFACode) String() string { return c.v }

func (c TwoFACode) IsZero() bool { return c.v == "" }

// Equal compares codes in constant time.
func (c TwoFACode) Equal(other TwoFACode) bool {
	return subtle.ConstantTimeCompare([]byte(c.v), []byte(other.v)) == 1
}

// Challenge is a pending two-factor verification: the attempt id returned to
// the client paired with the code delivered out of band. At most one
// challenge may be pending per email at a time.
type Challenge struct {
	AttemptID LoginAttemptID
	Code      TwoFACode
}
