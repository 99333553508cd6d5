package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
)

// Access tokens are short-lived; clients re-run the login flow on expiry.
const tokenTTL = 2 * time.Hour

// TokenIssuer mints signed access tokens for authenticated users. It is
// stateless: issued tokens are never persisted, possession of a valid token
// is the sole authorization proof.
type TokenIssuer struct {
	key      []byte
	issuer   string
	audience string
}

func NewTokenIssuer(key, issuer, audience string) *TokenIssuer {
	return &TokenIssuer{key: []byte(key), issuer: issuer, audience: audience}
}

// Issue signs a token for userID with a fresh token id and a 2 hour expiry.
func (t *TokenIssuer) Issue(userID int64) (string, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	claims := jwt.MapClaims{
		"id":  strconv.FormatInt(userID, 10),
		"jti": jti.String(),
		"iss": t.issuer,
		"aud": t.audience,
		"exp": time.Now().Add(tokenTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.key)
}
