// Package validation computes resume validity, per-field error messages and the gating
// predicates that decide whether a section accepts a new entry.
package validation

import (
	"regexp"
	"strings"
)

// MinPhoneDigits is the minimum number of digits a phone number must contain.
const MinPhoneDigits = 10

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	datePattern  = regexp.MustCompile(`^\d{2}/\d{4}$`)
)

// IsRequiredFieldFilled reports whether value is non-empty after trimming whitespace.
func IsRequiredFieldFilled(value string) bool {
	return strings.TrimSpace(value) != ""
}

// IsValidEmail reports whether value looks like local@domain.tld.
func IsValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// IsValidPhone reports whether value contains at least MinPhoneDigits digits once
// separators and other non-digit characters are ignored.
func IsValidPhone(value string) bool {
	digits := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= MinPhoneDigits
}

// IsValidDateFormat reports whether value is a MM/YYYY date. The month range is not checked.
func IsValidDateFormat(value string) bool {
	return datePattern.MatchString(value)
}

