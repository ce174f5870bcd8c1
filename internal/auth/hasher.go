package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor for stored credentials.
const HashCost = 10

// maxPasswordBytes is bcrypt's input limit; longer inputs would be truncated.
const maxPasswordBytes = 72

var (
	// ErrInvalidInput is returned when a plaintext cannot be hashed.
	ErrInvalidInput = errors.New("invalid credential input")
	// ErrCorruptCredential is returned when a stored hash cannot be parsed.
	// It signals a data-integrity problem, not a wrong password.
	ErrCorruptCredential = errors.New("stored credential is corrupt")
)

// Hasher derives and verifies salted one-way password hashes.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher using HashCost.
func NewHasher() *Hasher {
	return &Hasher{cost: HashCost}
}

// NewHasherWithCost creates a Hasher with a custom bcrypt cost. Tests use
// bcrypt.MinCost to stay fast.
func NewHasherWithCost(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("%w: empty password", ErrInvalidInput)
	}
	if len(plaintext) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password longer than %d bytes", ErrInvalidInput, maxPasswordBytes)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hash. A malformed hash yields
// ErrCorruptCredential instead of false. Plaintexts longer than bcrypt's
// input limit never match.
func (h *Hasher) Verify(plaintext, hash string) (bool, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCorruptCredential, err)
	}
	// bcrypt only compares the first 72 bytes; Hash never accepts more.
	if len(plaintext) > maxPasswordBytes {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrCorruptCredential, err)
	}
}
