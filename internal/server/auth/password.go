package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt only looks at the first 72 bytes of its input.
const bcryptMaxInput = 72

// Seams for tests.
var (
	generateFromPassword   = bcrypt.GenerateFromPassword
	compareHashAndPassword = bcrypt.CompareHashAndPassword
)

// PasswordHasher hashes and verifies passwords with bcrypt. Every Hash call
// draws a fresh random salt which bcrypt embeds in its output.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost.
// A cost of 0 selects bcrypt.DefaultCost (10).
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordHasher{cost: cost}, nil
}

// Hash returns the encoded bcrypt hash of plaintext. Any failure of the
// primitive is reported as common.ErrHashingFailed.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := generateFromPassword(prepare(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrHashingFailed, err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hashed. A mismatch is (false, nil);
// an error means the stored hash could not be evaluated at all and wraps
// common.ErrHashingFailed. The comparison is bcrypt's constant-time one.
func (h *PasswordHasher) Verify(plaintext, hashed string) (bool, error) {
	err := compareHashAndPassword([]byte(hashed), prepare(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", common.ErrHashingFailed, err)
	}
}

// prepare maps passwords longer than bcrypt's input limit to a fixed-size
// digest so that no suffix is silently ignored.
func prepare(plaintext string) []byte {
	if len(plaintext) <= bcryptMaxInput {
		return []byte(plaintext)
	}
	sum := sha256.Sum256([]byte(plaintext))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
