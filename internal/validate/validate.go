// Package validate checks request shapes and accumulates field-level
// errors into a map suitable for the "fail" response envelope.  It
// replaces exception-style validation with plain checks: handlers bind a
// typed request struct, run the checks, and return the map when it is
// non-empty.
package validate

import (
	"fmt"
	"strconv"
	"strings"
)

// MinPasswordLen is the minimum accepted password length at registration.
const MinPasswordLen = 8

// FieldErrors maps a field name to the reason it was rejected.  A nil or
// empty map means the input passed validation.
type FieldErrors map[string]string

// Add records an error for a field, keeping the first error reported.
func (e FieldErrors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Empty reports whether no field failed validation.
func (e FieldErrors) Empty() bool { return len(e) == 0 }

// Required rejects empty or whitespace-only values.
func Required(e FieldErrors, field, v string) {
	if strings.TrimSpace(v) == "" {
		e.Add(field, "This field is required.")
	}
}

// MinLen rejects values shorter than n characters.
func MinLen(e FieldErrors, field, v string, n int) {
	if len(v) < n {
		e.Add(field, fmt.Sprintf("Ensure this field has at least %d characters.", n))
	}
}

// Decimal rejects values that do not parse as a decimal number.
func Decimal(e FieldErrors, field, v string) {
	if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
		e.Add(field, "A valid number is required.")
	}
}

// NonNegativeDecimal rejects values that are not decimals >= 0.
func NonNegativeDecimal(e FieldErrors, field, v string) {
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		e.Add(field, "A valid number is required.")
		return
	}
	if n < 0 {
		e.Add(field, "Ensure this value is greater than or equal to 0.")
	}
}
