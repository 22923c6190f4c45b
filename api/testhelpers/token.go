package testhelpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/nyayasankalan/case-api/models"
)

// TestSecret signs the tokens of Token
const TestSecret = "test-secret"

// Token signs an HS256 access token with TestSecret valid for an hour
func Token(t *testing.T, userID string, role models.Role, orgID string) string {
	return TokenWithExpiry(t, TestSecret, userID, string(role), orgID, time.Now().Add(time.Hour))
}

// TokenWithExpiry signs an HS256 access token with the given secret and claims
func TokenWithExpiry(t *testing.T, secret, userID, role, orgID string, exp time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
	}
	if orgID != "" {
		claims["organizationId"] = orgID
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
