// Package secretx wraps sensitive strings so they cannot leak through
// logging, formatting, or JSON encoding by accident. Callers must go
// through Expose to read the underlying value.
package secretx

import (
	"crypto/subtle"
	"log/slog"
)

const redacted = "[REDACTED]"

// Secret holds a sensitive string value. The zero value is an empty secret.
type Secret struct {
	v string
}

// New wraps a raw sensitive value.
func New(v string) Secret {
	return Secret{v: v}
}

// Expose returns the underlying value. Call this only at the boundary that
// genuinely needs the plaintext (hashing, signing, wire encoding).
func (s Secret) Expose() string {
	return s.v
}

// IsZero reports whether the secret is empty.
func (s Secret) IsZero() bool {
	return s.v == ""
}

// Equal compares two secrets in constant time.
func (s Secret) Equal(other Secret) bool {
	return subtle.ConstantTimeCompare([]byte(s.v), []byte(other.v)) == 1
}

// String implements fmt.Stringer and always redacts.
func (s Secret) String() string {
	return redacted
}

// GoString redacts %#v formatting as well.
func (s Secret) GoString() string {
	return redacted
}

// MarshalJSON redacts the value when a struct holding a Secret is encoded.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// LogValue implements slog.LogValuer so a Secret passed to a logger is
// redacted regardless of handler.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
