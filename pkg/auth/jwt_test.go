package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finguard/pkg/auth"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	manager := auth.NewJWTManager("test-secret")

	token, err := manager.GenerateToken("8a0f6f2e-4c1d-4b86-9f6e-2f0c6d1a7b3c", "demo@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, "8a0f6f2e-4c1d-4b86-9f6e-2f0c6d1a7b3c", claims.UserID)
	assert.Equal(t, "demo@example.com", claims.Email)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, err := auth.NewJWTManager("secret-a").GenerateToken("user", "u@example.com", time.Hour)
	require.NoError(t, err)

	_, err = auth.NewJWTManager("secret-b").ValidateToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret")

	token, err := manager.GenerateToken("user", "u@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTManager_MalformedToken(t *testing.T) {
	_, err := auth.NewJWTManager("test-secret").ValidateToken("not.a.token")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

// Tokens signed with a non-HMAC algorithm are rejected even when they
// otherwise parse, so an attacker cannot pick the algorithm.
func TestJWTManager_RejectsUnexpectedSigningMethod(t *testing.T) {
	claims := &auth.Claims{
		UserID: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = auth.NewJWTManager("test-secret").ValidateToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
