// Package dedupe centralizes duplicate-contact detection: field
// normalization, pairwise similarity scoring, candidate pair discovery and
// merge field reconciliation.
package dedupe

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NoValue is the canonical form of an absent or blank field. It is
// deliberately not the empty string, so two contacts both missing a field
// never compare equal on it.
const NoValue = "\x00"

var (
	nonDigitRegex   = regexp.MustCompile(`\D`)
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// NFD-decompose, drop combining marks, recompose
	diacriticsStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// NormalizeName returns the canonical comparison form of a person or company
// name: lowercased, diacritics stripped, whitespace collapsed.
func NormalizeName(raw *string) string {
	if raw == nil {
		return NoValue
	}

	s := strings.ToLower(strings.TrimSpace(*raw))
	if s == "" {
		return NoValue
	}

	if stripped, _, err := transform.String(diacriticsStripper, s); err == nil {
		s = stripped
	}

	return whitespaceRegex.ReplaceAllString(s, " ")
}

// NormalizeEmail returns the canonical comparison form of an email address:
// lowercased and trimmed.
func NormalizeEmail(raw *string) string {
	if raw == nil {
		return NoValue
	}

	s := strings.ToLower(strings.TrimSpace(*raw))
	if s == "" {
		return NoValue
	}
	return s
}

// NormalizePhone returns the canonical comparison form of a phone number:
// digits only, formatting and country-code prefix punctuation stripped.
func NormalizePhone(raw *string) string {
	if raw == nil {
		return NoValue
	}

	digits := nonDigitRegex.ReplaceAllString(*raw, "")
	if digits == "" {
		return NoValue
	}
	return digits
}
