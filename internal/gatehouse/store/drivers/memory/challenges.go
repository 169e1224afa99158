package memory

import (
	"context"
	"sync"
	"time"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store"
)

type challengeEntry struct {
	challenge domain.Challenge
	deadline  time.Time
}

// ChallengeStore keeps at most one pending two-factor challenge per email,
// each expiring after the configured TTL.
type ChallengeStore struct {
	mu    sync.RWMutex
	codes map[domain.Email]challengeEntry
	ttl   time.Duration

	now func() time.Time // test seam
}

func NewChallengeStore(ttl time.Duration) *ChallengeStore {
	return &ChallengeStore{
		codes: make(map[domain.Email]challengeEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *ChallengeStore) AddCode(_ context.Context, email domain.Email, ch domain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.codes[email]; ok && s.now().Before(entry.deadline) {
		return store.ErrAlreadyExists
	}
	s.codes[email] = challengeEntry{challenge: ch, deadline: s.now().Add(s.ttl)}
	return nil
}

func (s *ChallengeStore) GetCode(_ context.Context, email domain.Email) (domain.Challenge, error) {
	s.mu.RLock()
	entry, ok := s.codes[email]
	s.mu.RUnlock()

	if !ok || s.now().After(entry.deadline) {
		return domain.Challenge{}, store.ErrNotFound
	}
	return entry.challenge, nil
}

func (s *ChallengeStore) RemoveCode(_ context.Context, email domain.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.codes, email)
	return nil
}

func (s *ChallengeStore) ConsumeCode(_ context.Context, email domain.Email, ch domain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[email]
	if !ok || s.now().After(entry.deadline) || entry.challenge != ch {
		return store.ErrNotFound
	}
	delete(s.codes, email)
	return nil
}
