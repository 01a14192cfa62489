package util

import (
	"regexp"
)

// local@domain.tld with a TLD of at least two characters and no whitespace.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

const minPasswordLength = 6

// IsValidEmail reports whether email has the local@domain.tld shape.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsStrongPassword requires at least six characters including a digit,
// a lowercase and an uppercase letter.
func IsStrongPassword(password string) bool {
	if len([]rune(password)) < minPasswordLength {
		return false
	}

	var hasDigit, hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		}
	}
	return hasDigit && hasLower && hasUpper
}
