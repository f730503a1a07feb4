// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Credentials is the credential collaborator the member registry
// delegates to. Secrets are never stored or compared in plaintext;
// the registry only ever sees the opaque proof string.
type Credentials struct {
	Salt string
}

// Prove derives the opaque proof stored for a member's secret.
// HMAC-SHA256 keyed on the server salt, hex encoded.
func (c Credentials) Prove(secret string) string {
	h := hmac.New(sha256.New, []byte(c.Salt))
	h.Write([]byte(secret))
	return hex.EncodeToString(h.Sum(nil))
}

// Verify reports whether the provided secret matches a stored proof.
// Comparison is constant-time.
func (c Credentials) Verify(proof, secret string) bool {
	return hmac.Equal([]byte(proof), []byte(c.Prove(secret)))
}

// GenerateSessionToken creates a random bearer token for a signed-in
// member. 24 bytes = 192 bits of entropy.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}
