package auth

import "golang.org/x/crypto/bcrypt"

// MinPasswordLength is enforced at signup.
const MinPasswordLength = 6

// HashPassword produces a salted bcrypt hash of the plaintext password.
// The salt is random per call, so hashing the same password twice yields
// different outputs; only CheckPassword round-trips matter.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
// A malformed or empty hash is treated as a mismatch, never an error:
// the caller answers every failed login with the same generic rejection.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
