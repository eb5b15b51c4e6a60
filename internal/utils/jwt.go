package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // User identifiers
)

// JWT Claims
type Claims struct {
	UserID               uuid.UUID `json:"UserId"` // Custom claim for user ID
	Name                 string    `json:"Name"`   // Username
	Role                 string    `json:"Role"`   // First assigned role
	jwt.RegisteredClaims           // Standard JWT claims
}

// TokenOptions carries the issuer, audience and lifetime shared by signing and validation
type TokenOptions struct {
	Secret   string        // HMAC key
	Issuer   string        // iss claim
	Audience string        // aud claim
	TTL      time.Duration // Token lifetime
}

// GenerateJWT creates a signed token for the given user
func GenerateJWT(userID uuid.UUID, username, role string, opts TokenOptions) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(opts.TTL)
	claims := Claims{
		UserID: userID,   // Custom claim for user ID
		Name:   username, // Username claim
		Role:   role,     // Role claim
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    opts.Issuer,
			Audience:  jwt.ClaimStrings{opts.Audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),       // Issued at current time
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	signed, err := token.SignedString([]byte(opts.Secret))     // Sign the token with the secret
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseJWT parses a token and validates signature, algorithm, issuer, audience and expiry
func ParseJWT(tokenStr string, opts TokenOptions) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(opts.Secret), nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(opts.Issuer),
		jwt.WithAudience(opts.Audience),
		jwt.WithExpirationRequired(),
	)
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil // Return claims if valid
	}
	// Return error if token is invalid
	return nil, jwt.ErrSignatureInvalid
}
