package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	claimIssuer = "courtlink"
	claimRole   = "admin"
)

// ErrInvalidClaim is returned when an admin claim fails verification.
var ErrInvalidClaim = errors.New("invalid admin claim")

// adminClaims is the signed admin assertion stored on admin sessions.
type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ClaimSigner issues and verifies HS256 admin claims.
type ClaimSigner struct {
	key []byte
	ttl time.Duration
}

// NewClaimSigner creates a signer.
// PRE: len(key) >= 32, ttl > 0
func NewClaimSigner(key []byte, ttl time.Duration) (*ClaimSigner, error) {
	if len(key) < 32 {
		return nil, fmt.Errorf("admin claim key must be at least 32 bytes, got %d", len(key))
	}
	if ttl <= 0 {
		return nil, errors.New("admin claim ttl must be positive")
	}
	return &ClaimSigner{key: key, ttl: ttl}, nil
}

// Issue signs an admin claim for subject valid from now.
// POST: Returns the compact token and its expiry
func (s *ClaimSigner) Issue(subject string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.ttl)
	claims := adminClaims{
		Role: claimRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    claimIssuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin claim: %w", err)
	}
	return token, expiresAt, nil
}

// Verify checks signature, issuer, role and expiry at now.
// POST: Returns the subject, or an error wrapping ErrInvalidClaim
func (s *ClaimSigner) Verify(token string, now time.Time) (string, error) {
	var claims adminClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(claimIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}
	if claims.Role != claimRole {
		return "", fmt.Errorf("%w: role %q", ErrInvalidClaim, claims.Role)
	}
	return claims.Subject, nil
}
