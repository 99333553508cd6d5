package ports

import (
	"context"
	"time"

	"github.com/civicstats/identity-api/internal/core/domain"
)

// SmsSender delivers a verification code to a phone number.
type SmsSender interface {
	SendCode(ctx context.Context, mob, code string) error
}

// ChallengeStore holds the pending SMS challenge per user with expiry.
type ChallengeStore interface {
	// Save writes the challenge, overwriting any live one for the user.
	Save(ctx context.Context, userID int64, ch *domain.SmsChallenge, ttl time.Duration) error
	// Load returns the live challenge, or (nil, nil) when none exists or it
	// has expired.
	Load(ctx context.Context, userID int64) (*domain.SmsChallenge, error)
}
