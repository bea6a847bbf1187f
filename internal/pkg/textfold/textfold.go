// Package textfold reduces free text to lower-case ASCII words.
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips combining marks so "jalapeño" reads as "jalapeno".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Letters lower-cases s and drops every rune that is not an ASCII letter or
// whitespace. Whitespace is kept as-is.
func Letters(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Words is Letters followed by a whitespace split. Accented letters are
// dropped, not folded: "jalapeño" becomes "jalapeo".
func Words(s string) []string {
	return strings.Fields(Letters(s))
}

// FoldedWords folds accents before Letters, so "jalapeño" becomes "jalapeno".
func FoldedWords(s string) []string {
	return strings.Fields(Letters(Fold(s)))
}
