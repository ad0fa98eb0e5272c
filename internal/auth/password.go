package auth

import "strings"

// ValidatePassword checks a candidate password against the strength policy:
// at least 8 characters with one lowercase letter, one uppercase letter, and
// one digit. It returns one message per failed rule.
func ValidatePassword(password string) []string {
	var errs []string

	if len(password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		errs = append(errs, "password must contain a lowercase letter")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		errs = append(errs, "password must contain an uppercase letter")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		errs = append(errs, "password must contain a digit")
	}

	return errs
}
