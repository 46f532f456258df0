package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"github.com/google/uuid"
)

// GenerateIDFunc produces a new session id. Implementations must return a
// string unique with overwhelming probability across the store's lifetime.
type GenerateIDFunc func() (string, error)

// idEntropy is the number of random bytes in a default session id.
const idEntropy = 24

// GenerateID is the default id generator: 24 bytes of cryptographically
// secure randomness, URL-safe base64 encoded.
func GenerateID() (string, error) {
	b := make([]byte, idEntropy)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrIDGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// UUIDGenerateID generates session ids as random UUIDs. Useful when ids
// double as keys in systems that index UUIDs natively.
func UUIDGenerateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Join(ErrIDGeneration, err)
	}
	return id.String(), nil
}
