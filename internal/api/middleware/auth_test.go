package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	testKey      = "secret"
	testIssuer   = "identity-api"
	testAudience = "identity-app"
)

func signToken(t *testing.T, mutate func(jwt.MapClaims)) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":  "42",
		"jti": "test-jti",
		"iss": testIssuer,
		"aud": testAudience,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if mutate != nil {
		mutate(claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, bool, int64) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	var gotUserID int64
	mw := Auth(testKey, testIssuer, testAudience)
	handler := mw(func(c echo.Context) error {
		called = true
		gotUserID, _ = c.Get(UserIDKey).(int64)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called, gotUserID
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	rec, called, userID := runAuth(t, "Bearer "+signToken(t, nil))

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42 in context, got %d", userID)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec, called, _ := runAuth(t, "")
	if called {
		t.Fatalf("next must not run")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	rec, called, _ := runAuth(t, "Token abc")
	if called {
		t.Fatalf("next must not run")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	rec, called, _ := runAuth(t, "Bearer not-a-token")
	if called {
		t.Fatalf("next must not run")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_WrongAudience(t *testing.T) {
	token := signToken(t, func(c jwt.MapClaims) { c["aud"] = "someone-else" })
	rec, called, _ := runAuth(t, "Bearer "+token)
	if called {
		t.Fatalf("next must not run")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_WrongIssuer(t *testing.T) {
	token := signToken(t, func(c jwt.MapClaims) { c["iss"] = "impostor" })
	rec, called, _ := runAuth(t, "Bearer "+token)
	if called {
		t.Fatalf("next must not run")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	token := signToken(t, func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Minute).Unix() })
	rec, called, _ := runAuth(t, "Bearer "+token)
	if called {
		t.Fatalf("next must not run")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_NonNumericSubject(t *testing.T) {
	token := signToken(t, func(c jwt.MapClaims) { c["id"] = "not-a-number" })
	rec, called, _ := runAuth(t, "Bearer "+token)
	if called {
		t.Fatalf("next must not run")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
