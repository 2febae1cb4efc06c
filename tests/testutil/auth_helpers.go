package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IssueTestToken signs a bearer token the way the login endpoint does, so
// suites can exercise protected routes without going through /auth/login
func IssueTestToken(t *testing.T, secret, userID, email, role string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"id":    userID,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return token
}
