package memory

import (
	"context"
	"sync"
	"time"

	"github.com/arborlabs/gatehouse/internal/gatehouse/store"
)

// RevokedTokenStore keeps banned token strings with their expiry deadline.
// Expired entries are dropped lazily on access; the set is bounded by the
// token TTL so no background sweeper is needed.
type RevokedTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]time.Time

	now func() time.Time // test seam
}

func NewRevokedTokenStore() *RevokedTokenStore {
	return &RevokedTokenStore{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (s *RevokedTokenStore) Revoke(_ context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if deadline, ok := s.tokens[token]; ok && s.now().Before(deadline) {
		return store.ErrAlreadyExists
	}
	s.tokens[token] = s.now().Add(ttl)
	return nil
}

func (s *RevokedTokenStore) Check(_ context.Context, token string) error {
	s.mu.RLock()
	deadline, ok := s.tokens[token]
	s.mu.RUnlock()

	if !ok {
		return store.ErrNotFound
	}
	if s.now().After(deadline) {
		s.mu.Lock()
		// Re-check under the write lock; another goroutine may have
		// re-revoked the token meanwhile.
		if d, ok := s.tokens[token]; ok && s.now().After(d) {
			delete(s.tokens, token)
		}
		s.mu.Unlock()
		return store.ErrNotFound
	}
	return nil
}
