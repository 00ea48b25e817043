package oauth2

import (
	"crypto/rand"
	"encoding/hex"
)

// stateBytes is the raw entropy of a state token (256 bits).
const stateBytes = 32

// GenerateRandomString returns length random bytes, hex encoded.
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
