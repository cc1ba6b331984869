package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken is returned when a credential token cannot be decoded.
	ErrMalformedToken = errors.New("malformed credential token")
	// ErrMissingExpiry is returned when a decoded token carries no exp claim.
	ErrMissingExpiry = errors.New("credential token has no expiry")
)

// RoleClaims is the payload carried by role credential tokens.
type RoleClaims struct {
	ID   string `json:"id,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseExpiry decodes the exp claim of token without verifying its signature.
func ParseExpiry(token string) (time.Time, error) {
	claims, err := ParseUnverified(token)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrMissingExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// ParseUnverified decodes the payload of token without verifying its signature.
func ParseUnverified(token string) (*RoleClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	claims := &RoleClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}
