// utils/valid.go
package utils

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegex         = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	contactNumberRegex = regexp.MustCompile(`^[0-9+\-()\s]{7,20}$`)
)

// SanitizeInput trims the input and removes control characters.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
}

// SanitizeText is SanitizeInput for multi-line free text; newlines and tabs survive.
func SanitizeText(input string) string {
	input = strings.TrimSpace(input)

	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
}

// SanitizeEmail sanitizes and validates an email address
func SanitizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if !emailRegex.MatchString(email) {
		return "", errors.New("invalid email format")
	}

	return email, nil
}

// IsValidContactNumber accepts digits, spaces and + - ( ), 7 to 20 characters long.
func IsValidContactNumber(number string) bool {
	return contactNumberRegex.MatchString(number)
}
