package util

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecureToken returns n random bytes hex-encoded (2n characters).
func GenerateSecureToken(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
