// Package validation holds the field and form rules applied to user input,
// both for live per-field checks and for typed form submissions.
package validation

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMaxFileSize is the upload ceiling for attachments such as resumes.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern  = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	phoneStripper = strings.NewReplacer(" ", "", "\t", "", "-", "", "(", "", ")", "")
)

// IsValidEmail is a shape check only: something@something.tld.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidURL accepts anything that parses as an absolute URL.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}

// IsValidPhone ignores spaces, dashes and parentheses, then expects an
// optional + and up to 16 digits not starting with 0.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phoneStripper.Replace(phone))
}

type PasswordStrength string

const (
	PasswordWeak   PasswordStrength = "weak"
	PasswordMedium PasswordStrength = "medium"
	PasswordStrong PasswordStrength = "strong"
)

// CheckPasswordStrength scores length, lower, upper, digit and symbol.
func CheckPasswordStrength(password string) PasswordStrength {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}

	score := 0
	for _, ok := range []bool{len(password) >= 8, lower, upper, digit, symbol} {
		if ok {
			score++
		}
	}

	switch {
	case score <= 2:
		return PasswordWeak
	case score == 3:
		return PasswordMedium
	default:
		return PasswordStrong
	}
}

// parseNumber reports ok=false for input that is not a number; such
// input is left to the required rule.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
