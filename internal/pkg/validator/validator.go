package validator

import (
	"regexp"
	"strings"
	"time"
)

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var nonDigitRegex = regexp.MustCompile(`[^0-9+]`)

// NormalizePhone canonicalizes an Indonesian phone number so that
// "0812-3456-7890", "+62 812 3456 7890" and "6281234567890" all compare
// equal. Punctuation and spaces are stripped; a leading "0" or "+62"
// becomes "62". Lookups and stored employee phones both go through this.
func NormalizePhone(phone string) string {
	p := nonDigitRegex.ReplaceAllString(phone, "")
	p = strings.TrimPrefix(p, "+")

	switch {
	case strings.HasPrefix(p, "62"):
		return p
	case strings.HasPrefix(p, "0"):
		return "62" + p[1:]
	default:
		return p
	}
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Phone number validation, applied after normalization.
func IsValidPhoneNumber(phone string) bool {
	p := NormalizePhone(phone)
	if len(p) < 10 || len(p) > 15 {
		return false
	}
	return IsNumeric(p)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Short code validation: 4-12 chars, A-Z, a-z, 0-9.
var shortCodeRegex = regexp.MustCompile(`^[A-Za-z0-9]{4,12}$`)

func IsValidShortCode(code string) bool {
	return shortCodeRegex.MatchString(code)
}
