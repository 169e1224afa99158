package domain

// User is a stored credential record. Created once on signup, read on login,
// never updated or deleted. PasswordHash is an opaque PHC-encoded argon2id
// hash; the plaintext password is never persisted.
type User struct {
	Email        Email
	PasswordHash string
	Requires2FA  bool
}
