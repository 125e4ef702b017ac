package util

import (
	"golang.org/x/crypto/bcrypt"
)

// cost 12 keeps a single hash around a quarter second on current hardware
const bcryptCost = 12

// HashPassword returns the bcrypt hash of a plain password for storage
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword reports whether the plain password matches the stored hash
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
