package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"staybook/internal/domain/auth"
)

type RandomTokenGenerator struct {
	Size int
}

func (g RandomTokenGenerator) NewToken() (auth.Token, error) {
	size := g.Size
	if size <= 0 {
		size = 32
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token: entropy read failed: %w", err)
	}
	return auth.Token(base64.RawURLEncoding.EncodeToString(buf)), nil
}
