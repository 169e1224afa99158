package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store"

	goredis "github.com/redis/go-redis/v9"
)

const challengePrefix = "two_fa_challenge:"

// ChallengeStore keeps pending 2FA challenges keyed by email. The key TTL
// enforces the challenge lifetime and SetNX enforces the single pending
// challenge per email.
type ChallengeStore struct {
	client *goredis.Client
	ttl    time.Duration
}

var _ store.Challenges = (*ChallengeStore)(nil)

type challengeRecord struct {
	LoginAttemptID string `json:"login_attempt_id"`
	Code           string `json:"code"`
}

func (s *ChallengeStore) AddCode(ctx context.Context, email domain.Email, challenge domain.Challenge) error {
	payload, err := json.Marshal(challengeRecord{
		LoginAttemptID: challenge.AttemptID.String(),
		Code:           challenge.Code.String(),
	})
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, challengePrefix+email.String(), payload, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrAlreadyExists
	}
	return nil
}

func (s *ChallengeStore) GetCode(ctx context.Context, email domain.Email) (domain.Challenge, error) {
	raw, err := s.client.Get(ctx, challengePrefix+email.String()).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.Challenge{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Challenge{}, err
	}

	var record challengeRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return domain.Challenge{}, fmt.Errorf("corrupt challenge record: %w", err)
	}

	attemptID, err := domain.ParseLoginAttemptID(record.LoginAttemptID)
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("corrupt challenge record: %w", err)
	}
	code, err := domain.ParseTwoFACode(record.Code)
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("corrupt challenge record: %w", err)
	}

	return domain.Challenge{AttemptID: attemptID, Code: code}, nil
}

func (s *ChallengeStore) RemoveCode(ctx context.Context, email domain.Email) error {
	return s.client.Del(ctx, challengePrefix+email.String()).Err()
}

// consumeScript deletes the key only while it still holds the expected
// value, so exactly one of several concurrent redemptions wins.
var consumeScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (s *ChallengeStore) ConsumeCode(ctx context.Context, email domain.Email, ch domain.Challenge) error {
	payload, err := json.Marshal(challengeRecord{
		LoginAttemptID: ch.AttemptID.String(),
		Code:           ch.Code.String(),
	})
	if err != nil {
		return err
	}

	deleted, err := consumeScript.Run(ctx, s.client,
		[]string{challengePrefix + email.String()}, payload).Int()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return store.ErrNotFound
	}
	return nil
}
