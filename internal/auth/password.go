package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// bcryptCost trades hashing latency for brute-force resistance. Raising
	// it affects newly stored hashes only; existing hashes keep verifying.
	bcryptCost = 12

	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt truncates beyond 72 bytes
)

// HashPassword hashes a plaintext password for storage. Length bounds are
// enforced here so every write path shares the same policy.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("auth: password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return "", fmt.Errorf("auth: password must be at most %d characters", maxPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with the stored hash. Length
// bounds are deliberately not enforced here: a stored hash decides.
func VerifyPassword(hash, password string) error {
	if hash == "" {
		return errors.New("auth: password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
