package utils

import (
	"regexp"
	"strings"

	"github.com/lumeon-dev/accounts/internal/errors"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const passwordSymbols = "!@#$%^&*"

// NormalizeEmail lower-cases and trims an email; the result is the identity
// key everywhere downstream.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the normalized form against the accepted shape.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return errors.ErrInvalidEmailFormat
	}
	return nil
}

// ValidatePassword enforces the password policy: at least 6 characters,
// one uppercase letter and one symbol from !@#$%^&*.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.ErrPasswordRequirements
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return errors.ErrPasswordRequirements
	}
	if !strings.ContainsAny(password, passwordSymbols) {
		return errors.ErrPasswordRequirements
	}
	return nil
}
