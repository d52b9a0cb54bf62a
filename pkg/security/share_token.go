package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// shareTokenBytes gives 192 bits of entropy per token, comfortably above the
// guessing threshold for unauthenticated share links.
const shareTokenBytes = 24

// NewShareToken produces a URL-safe random token for trip share links. The
// token carries no embedded structure: it is only ever matched by equality
// against the trips.share_token column.
func NewShareToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
