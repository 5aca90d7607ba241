// Copyright (c) 2026 Programando o Futuro. All rights reserved.

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenPair carries a freshly minted access/refresh token pair from the
// session layer to the HTTP boundary, where it is staged as cookies on the
// outgoing response.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// GenerateSecureToken returns a URL-safe random string with byteLength bytes
// of entropy (unpadded base64url encoding).
//
// It backs refresh tokens, which act as durable bearer secrets; 32 bytes
// gives 256 bits of entropy.
func GenerateSecureToken(byteLength int) (string, error) {
	randomBytes := make([]byte, byteLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(randomBytes), nil
}
