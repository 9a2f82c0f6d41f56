package auth

import (
	"context"
	"time"
)

// Identity is the user identity carried inside a token.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// JWTService defines operations for issuing and verifying bearer tokens.
type JWTService interface {
	// GenerateToken creates a signed token for identity. The subject is the
	// username and the token expires after the configured lifetime.
	GenerateToken(ctx context.Context, identity Identity) (string, error)

	// ValidateToken checks signature and expiry and returns the claims.
	// Returns ErrExpiredToken, ErrInvalidSignature, ErrMalformedToken or
	// ErrInvalidToken.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified content of a token.
type Claims struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// Identity returns the identity the claims were issued for.
func (c *Claims) Identity() Identity {
	return Identity{Username: c.Username, Email: c.Email}
}
