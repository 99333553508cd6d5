package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func parseTestToken(t *testing.T, signed, key string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(key), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	return claims
}

func TestTokenIssuer_Claims(t *testing.T) {
	issuer := NewTokenIssuer("test-key", "identity-api", "identity-app")

	signed, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims := parseTestToken(t, signed, "test-key")
	if claims["id"] != "42" {
		t.Fatalf("unexpected subject: %v", claims["id"])
	}
	if claims["iss"] != "identity-api" {
		t.Fatalf("unexpected issuer: %v", claims["iss"])
	}
	if claims["aud"] != "identity-app" {
		t.Fatalf("unexpected audience: %v", claims["aud"])
	}
	if claims["jti"] == "" || claims["jti"] == nil {
		t.Fatalf("expected a token id")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatalf("expected numeric exp, got %T", claims["exp"])
	}
	remaining := time.Until(time.Unix(int64(exp), 0))
	if remaining < 119*time.Minute || remaining > 121*time.Minute {
		t.Fatalf("expected ~2 hour expiry, got %v", remaining)
	}
}

func TestTokenIssuer_FreshTokenIDPerCall(t *testing.T) {
	issuer := NewTokenIssuer("test-key", "identity-api", "identity-app")

	first, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	second, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	jti1 := parseTestToken(t, first, "test-key")["jti"]
	jti2 := parseTestToken(t, second, "test-key")["jti"]
	if jti1 == jti2 {
		t.Fatalf("expected distinct token ids, both were %v", jti1)
	}
}

func TestTokenIssuer_WrongKeyRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-key", "identity-api", "identity-app")

	signed, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("other-key"), nil
	})
	if err == nil {
		t.Fatalf("expected signature verification to fail")
	}
}
