package util

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor; 10 matches the salt rounds the original
// deployment hashed existing accounts with.
const bcryptCost = 10

// HashPassword hashes a plain text password with a random salt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword checks if a plain text password matches a hashed password.
// A malformed hash reports false.
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
