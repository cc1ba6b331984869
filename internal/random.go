package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

const opaqueTokenSize = 40

// NewOpaqueToken returns a random base64url token (no padding) used for
// refresh, verification and reset tokens.
func NewOpaqueToken() (string, error) {
	var raw [opaqueTokenSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// HashToken returns the lookup digest stored in place of a token.
func HashToken(token string) [32]byte {
	return sha256.Sum256([]byte(token))
}

// ValidateOpaqueToken checks that token has the shape produced by
// NewOpaqueToken.
func ValidateOpaqueToken(token string) error {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return errors.New("invalid token encoding")
	}
	if len(raw) != opaqueTokenSize {
		return errors.New("invalid token size")
	}
	return nil
}
