// Package auth verifies bearer tokens and gates requests with a small, closed
// set of authorization policies.
//
// The API never runs a login flow of its own. An external identity provider
// issues JWTs; clients send them as "Authorization: Bearer <token>". This
// package verifies the signature, issuer, audience and expiry, and exposes the
// verified subject claim to the rest of the application. Nothing downstream
// ever sees or parses the raw token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService validates tokens from the identity provider. It also mints
// tokens with the same parameters, which is how tests and local development
// stand in for the provider.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenService creates a TokenService for the given shared secret and the
// issuer/audience values the identity provider stamps into its tokens.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret, issuer, audience string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if issuer == "" || audience == "" {
		return nil, errors.New("auth: issuer and audience are required")
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, audience: audience}, nil
}

// claims embeds jwt.RegisteredClaims; the subject carries the external
// identity reference.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a token for the given subject, valid for one
// hour. This mirrors what the identity provider does and is used by tests and
// the local token tool.
func (s *TokenService) Generate(subject string) (string, error) {
	return s.GenerateWithDuration(subject, time.Hour)
}

// GenerateWithDuration creates a token with a custom expiry duration.
func (s *TokenService) GenerateWithDuration(subject string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the subject claim,
// the caller's external identity reference.
//
// Checks performed: signature, expiry, issuer, audience, and that the
// algorithm is HS256 (jwt.WithValidMethods closes the algorithm-confusion
// hole where a token signed with "none" might be accepted).
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	subject := c.Subject
	if subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return subject, nil
}
