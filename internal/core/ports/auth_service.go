package ports

import (
	"context"

	"github.com/civicstats/identity-api/internal/core/domain"
)

// CompleteRegistrationInput is the DTO passed from the transport layer when
// a phone-verified user finishes their profile.
type CompleteRegistrationInput struct {
	UserID       int64
	Mob          string
	Name         string
	IDCardNumber string
	Birthday     string
}

// AuthService drives the login and registration state machine:
// anonymous → wechat-verified → phone-verified → registered.
type AuthService interface {
	// LoginURL builds the WeChat OAuth authorize redirect target. When no
	// WeChat credential is configured it points at the local development
	// stand-in instead. scheme and host describe the inbound request and are
	// only used for the stand-in URL.
	LoginURL(scheme, host, redirectURI string) string
	// ExchangeCode trades an OAuth code for an access token and the user
	// bound to the WeChat identity, creating the user on first login.
	ExchangeCode(ctx context.Context, code string) (string, *domain.User, error)
	// SendSmsCode delivers a verification code to mob and records the
	// pending challenge. Returns the challenge TTL in seconds.
	SendSmsCode(ctx context.Context, userID int64, mob string) (int, error)
	// VerifySmsCode checks mob+code against the pending challenge and binds
	// the phone on success. A mismatch is reported as false, never an error.
	VerifySmsCode(ctx context.Context, userID int64, mob, code string) (bool, error)
	CompleteRegistration(ctx context.Context, in CompleteRegistrationInput) (*domain.User, error)
}
