// Package sanitize strips document-store query operators from user input
// before it reaches a filter or a stored document.
package sanitize

import (
	"strings"
	"unicode"
)

// String trims s, drops control characters and NUL bytes, and removes
// leading '$' characters so the value can never be read as an operator
// such as "$gt" or "$where".
func String(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimLeft(s, "$"))
}

// Email sanitizes s and lower-cases it so lookups are case-insensitive.
func Email(s string) string {
	return strings.ToLower(String(s))
}

// Fields sanitizes every pointed-to string in place.
func Fields(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = String(*f)
		}
	}
}
