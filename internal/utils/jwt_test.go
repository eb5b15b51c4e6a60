package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenOptions() TokenOptions {
	return TokenOptions{
		Secret:   "test-secret-that-is-long-enough-32",
		Issuer:   "ApiEcommerce",
		Audience: "ApiEcommerce",
		TTL:      2 * time.Hour,
	}
}

func TestGenerateAndParseJWT(t *testing.T) {
	opts := testTokenOptions()
	userID := uuid.New()

	token, expiresAt, err := GenerateJWT(userID, "alice", "Admin", opts)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), expiresAt, 5*time.Second)

	claims, err := ParseJWT(token, opts)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, "Admin", claims.Role)
	assert.Equal(t, "ApiEcommerce", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"ApiEcommerce"}, claims.Audience)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	opts := testTokenOptions()
	token, _, err := GenerateJWT(uuid.New(), "alice", "User", opts)
	require.NoError(t, err)

	opts.Secret = "a-completely-different-secret-value"
	_, err = ParseJWT(token, opts)
	assert.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid), "got %v", err)
}

func TestParseJWTRejectsWrongIssuerAndAudience(t *testing.T) {
	opts := testTokenOptions()
	token, _, err := GenerateJWT(uuid.New(), "alice", "User", opts)
	require.NoError(t, err)

	wrongIssuer := opts
	wrongIssuer.Issuer = "someone-else"
	_, err = ParseJWT(token, wrongIssuer)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	wrongAudience := opts
	wrongAudience.Audience = "another-api"
	_, err = ParseJWT(token, wrongAudience)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
}

func TestParseJWTRejectsExpiredToken(t *testing.T) {
	opts := testTokenOptions()
	opts.TTL = -time.Minute
	token, _, err := GenerateJWT(uuid.New(), "alice", "User", opts)
	require.NoError(t, err)

	_, err = ParseJWT(token, opts)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseJWTRejectsOtherAlgorithms(t *testing.T) {
	opts := testTokenOptions()
	claims := Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    opts.Issuer,
			Audience:  jwt.ClaimStrings{opts.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(opts.Secret))
	require.NoError(t, err)

	_, err = ParseJWT(token, opts)
	assert.Error(t, err)
}
