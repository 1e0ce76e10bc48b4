package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when the hasher is built with a zero cost
const DefaultBcryptCost = 10

// Hasher hashes and checks passwords
type Hasher interface {
	Hash(password string) (string, error)
	Check(hashedPassword, password string) bool
	CheckDummy(password string) bool
}

var _ Hasher = (*PasswordHasher)(nil)

// PasswordHasher hashes and checks passwords with bcrypt
type PasswordHasher struct {
	cost      int
	dummyHash []byte
}

// NewPasswordHasher creates a hasher with the given bcrypt cost
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	// compared against on unknown accounts so the failure path costs the same
	dummy, _ := bcrypt.GenerateFromPassword([]byte("campusconnect-dummy-password"), cost)
	return &PasswordHasher{cost: cost, dummyHash: dummy}
}

// Hash returns the bcrypt hash of password
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Check reports whether password matches hashedPassword
func (h *PasswordHasher) Check(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// CheckDummy burns one comparison against a fixed hash. It always returns false.
func (h *PasswordHasher) CheckDummy(password string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
	return false
}
