package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent lower-cases s and strips '_', '-' and spaces, so
// "full_name", "FullName" and "fullName" normalize identically.
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
