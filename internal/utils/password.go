package utils

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// BcryptHasher implements the password-hashing collaborator with
// bcrypt at cost 12.
type BcryptHasher struct{}

func (BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptHasher) Check(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// HashPassword hashes a plaintext password.
func HashPassword(plaintext string) (string, error) {
	return BcryptHasher{}.Hash(plaintext)
}

// CheckPasswordHash reports whether the plaintext matches the hash.
func CheckPasswordHash(plaintext, hash string) bool {
	return BcryptHasher{}.Check(plaintext, hash)
}
