package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicstats/identity-api/internal/core/domain"
)

// ChallengeStore keeps the pending SMS challenge per user in Redis.
// Key format: smscode:<user_id>. The key TTL is the challenge TTL, so
// expiry needs no sweeper; an expired challenge simply stops resolving.
type ChallengeStore struct {
	client *redis.Client
}

// NewChallengeStore creates a ChallengeStore wrapping the given Redis client.
func NewChallengeStore(client *redis.Client) *ChallengeStore {
	return &ChallengeStore{client: client}
}

// Save writes the challenge with ttl, replacing any live one for the user.
func (s *ChallengeStore) Save(ctx context.Context, userID int64, ch *domain.SmsChallenge, ttl time.Duration) error {
	payload, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshal sms challenge: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save sms challenge: %w", err)
	}
	return nil
}

// Load returns the live challenge, or (nil, nil) when none exists.
func (s *ChallengeStore) Load(ctx context.Context, userID int64) (*domain.SmsChallenge, error) {
	payload, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load sms challenge: %w", err)
	}

	var ch domain.SmsChallenge
	if err := json.Unmarshal(payload, &ch); err != nil {
		return nil, fmt.Errorf("decode sms challenge: %w", err)
	}
	return &ch, nil
}

func (s *ChallengeStore) key(userID int64) string {
	return "smscode:" + strconv.FormatInt(userID, 10)
}
