package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const defaultTokenBytes = 32

// RandomTokenGenerator issues opaque bearer tokens, optionally prefixed so
// they can be recognised in logs and secret scanners.
type RandomTokenGenerator struct {
	Size   int
	Prefix string
}

func (g RandomTokenGenerator) NewToken() (string, error) {
	size := g.Size
	if size <= 0 {
		size = defaultTokenBytes
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("security: read entropy: %w", err)
	}
	return g.Prefix + base64.RawURLEncoding.EncodeToString(buf), nil
}
