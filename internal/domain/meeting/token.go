package meeting

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes gives 128 bits of entropy per token.
const tokenBytes = 16

// NewToken mints an unguessable one-time session token.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
