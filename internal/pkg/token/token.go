package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewInviteToken generates a cryptographically random 64-character hex
// token for email invitation links.
func NewInviteToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate invite token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
