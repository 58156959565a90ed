package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// zero-width and directional characters that adversarial input uses to break
// up otherwise well-formed identifiers.
var invisibleRunes = map[rune]struct{}{
	'\u200b': {}, // zero width space
	'\u200c': {}, // zero width non-joiner
	'\u200d': {}, // zero width joiner
	'\ufeff': {}, // byte order mark
	'\u2060': {}, // word joiner
}

// Fold normalizes a candidate string for case- and encoding-insensitive
// comparison: NFKC form, lowercased, surrounding whitespace removed.
func Fold(s string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(s)))
}

// StripInvisible removes zero-width characters. The result is for matching
// only; offsets into the original string are not preserved.
func StripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		if _, ok := invisibleRunes[r]; ok {
			return -1
		}
		return r
	}, s)
}

// IsHexish reports whether s consists solely of hex digits (at least one).
func IsHexish(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// IsNumeric reports whether s consists solely of ASCII digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// HasDigit reports whether s contains at least one ASCII digit.
func HasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

// IsAllUpper reports whether every letter in s is upper case and s contains
// at least one letter.
func IsAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}
