// Package memory implements the store interfaces on process-local maps.
// It backs tests and single-process runs; nothing survives a restart.
// Every store uses a readers-writer lock so lookups can proceed
// concurrently while writes get exclusive access.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store"
	"github.com/arborlabs/gatehouse/pkg/cryptox"
)

// CredentialStore keeps user records in a map keyed by email.
type CredentialStore struct {
	mu     sync.RWMutex
	users  map[domain.Email]domain.User
	hasher *cryptox.Hasher
}

func NewCredentialStore(hasher *cryptox.Hasher) *CredentialStore {
	return &CredentialStore{
		users:  make(map[domain.Email]domain.User),
		hasher: hasher,
	}
}

func (s *CredentialStore) AddUser(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.Email]; ok {
		return store.ErrAlreadyExists
	}
	s.users[u.Email] = u
	return nil
}

func (s *CredentialStore) GetUser(_ context.Context, email domain.Email) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *CredentialStore) ValidateUser(ctx context.Context, email domain.Email, password domain.Password) error {
	s.mu.RLock()
	u, ok := s.users[email]
	s.mu.RUnlock()
	if !ok {
		return store.ErrNotFound
	}

	// The lock is released before verification: argon2 takes tens of
	// milliseconds and must not block other store users.
	if err := s.hasher.Verify(ctx, u.PasswordHash, password.Expose()); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return store.ErrInvalidCredentials
		}
		return fmt.Errorf("verify password: %w", err)
	}
	return nil
}
