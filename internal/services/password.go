package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

// HashPassword creates a bcrypt hash of the password.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func passwordProblems(password string) []FieldError {
	switch {
	case len(password) < MinPasswordLength:
		return []FieldError{{Field: "password", Message: "Password must be at least 6 characters long"}}
	case len(password) > maxPasswordBytes:
		return []FieldError{{Field: "password", Message: "Password must be at most 72 bytes long"}}
	}
	return nil
}
