package services

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// stands in for an account that does not exist
const absentAccountPassword = "legal-sheba-absent-account"

// PasswordHasher hashes and checks passwords with bcrypt.
type PasswordHasher struct {
	cost int

	absentOnce sync.Once
	absentHash []byte
}

// NewPasswordHasher returns a hasher using cost, falling back to bcrypt.DefaultCost
// when cost is outside bcrypt's accepted range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

func (h *PasswordHasher) Check(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckAbsent spends the same bcrypt work as Check when there is no stored
// hash to compare against, and always reports a mismatch.
func (h *PasswordHasher) CheckAbsent(password string) bool {
	h.absentOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(absentAccountPassword), h.cost)
		if err == nil {
			h.absentHash = hash
		}
	})
	if h.absentHash != nil {
		_ = bcrypt.CompareHashAndPassword(h.absentHash, []byte(password))
	}
	return false
}
