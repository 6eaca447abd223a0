package common

import (
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

// Decapitalize lower-cases the first rune of s, following the beans rule:
// when the first two runes are both upper case the name is an acronym and
// is returned unchanged ("URL" stays "URL", "X" becomes "x").
func Decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	next, _ := utf8.DecodeRuneInString(s[size:])
	if unicode.IsUpper(r) && unicode.IsUpper(next) {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}

// IsExportedName reports whether name starts with an upper-case letter.
func IsExportedName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
