// Package auth issues and verifies domain-scoped API credentials: short-lived
// HS256 JWTs carrying the domain id and caller identity, and long-lived static
// tokens stored bcrypt-hashed on the domain row.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager signs and validates domain access tokens.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// domainClaims extends standard JWT claims with the caller identity. The
// subject is the domain id the token grants access to.
type domainClaims struct {
	jwt.RegisteredClaims
	Actor string `json:"actor,omitempty"`
}

// IssueDomainToken creates a signed HS256 JWT scoped to one domain, with the
// caller identity as a custom claim.
func (m *JWTManager) IssueDomainToken(domainID uuid.UUID, actor string) (string, error) {
	now := time.Now()
	claims := domainClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   domainID.String(),
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Actor: actor,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyDomainToken parses and validates a domain access token.
// Returns the domain id and the caller identity if valid.
func (m *JWTManager) VerifyDomainToken(tokenString string) (uuid.UUID, string, error) {
	if tokenString == "" {
		return uuid.Nil, "", fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &domainClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*domainClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "", fmt.Errorf("invalid token claims")
	}
	if claims.Issuer != m.issuer {
		return uuid.Nil, "", fmt.Errorf("invalid issuer: expected %s, got %s", m.issuer, claims.Issuer)
	}

	domainID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid subject UUID: %w", err)
	}
	return domainID, claims.Actor, nil
}
