// Package normalize canonicalizes scalar values coming out of source
// platform exports. All functions are pure: when a value does not fit the
// expected shape they return it unchanged rather than failing.
package normalize

import (
	"regexp"
	"strings"
)

var (
	nonDigitRe   = regexp.MustCompile(`\D`)
	postalCodeRe = regexp.MustCompile(`(\d{5})(?:[-\s]?(\d{4}))?`)
)

// Email lowercases and trims an email address.
func Email(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Phone converts a phone number to an E.164-like string. Best effort, not
// full E.164 validation: ambiguous international numbers only get a bare
// "+" prefix. countryCode is prefixed onto bare 10-digit national numbers.
func Phone(v, countryCode string) string {
	digits := nonDigitRe.ReplaceAllString(v, "")
	if digits == "" {
		return v
	}
	switch {
	case len(digits) == 10:
		return "+" + countryCode + digits
	case len(digits) == 11 && strings.HasPrefix(digits, countryCode):
		return "+" + digits
	default:
		return "+" + digits
	}
}

// RegionCode uppercases a two-letter region code. Values of any other
// length pass through trimmed but otherwise unchanged; no validation
// against a real region list is attempted.
func RegionCode(v string) string {
	trimmed := strings.TrimSpace(v)
	if len(trimmed) == 2 {
		return strings.ToUpper(trimmed)
	}
	return trimmed
}

// PostalCode extracts a 5-digit or 5+4 postal code. Returns the input
// unchanged when no code shape is found.
func PostalCode(v string) string {
	m := postalCodeRe.FindStringSubmatch(v)
	if m == nil {
		return v
	}
	if m[2] != "" {
		return m[1] + "-" + m[2]
	}
	return m[1]
}

// SplitList splits a delimited value into trimmed, non-empty parts,
// preserving order.
func SplitList(v, delimiter string) []string {
	if delimiter == "" {
		delimiter = ","
	}
	parts := strings.Split(v, delimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
