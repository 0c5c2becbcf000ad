package util

import (
	"strings"
	"unicode"

	gutil "github.com/yuin/goldmark/util"
	"golang.org/x/text/unicode/norm"
)

// IsSpace reports whether r counts as whitespace for key-info text.
// Zero-width characters and no-break spaces are treated like ordinary spaces.
func IsSpace(r rune) bool {
	switch r {
	case '\u00a0', '\u2007', '\u202f', // no-break spaces
		'\u200b', '\u200c', '\u200d', '\u2060', '\ufeff': // zero-width
		return true
	}
	return unicode.IsSpace(r)
}

// NormalizeText trims surrounding whitespace (see IsSpace) and returns the NFC form.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimFunc(s, IsSpace))
}

// IsWordRune reports whether r can be part of a tag token.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.M, r) ||
		r == '_' || r == '-' || r == '/'
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return len([]rune(s))
}

// Unescape resolves backslash escapes and character references the way
// rendered markdown text shows them.
func Unescape(s string) string {
	if !strings.ContainsAny(s, `\&`) {
		return s
	}
	b := gutil.UnescapePunctuations([]byte(s))
	return string(gutil.ResolveEntityNames(gutil.ResolveNumericReferences(b)))
}
