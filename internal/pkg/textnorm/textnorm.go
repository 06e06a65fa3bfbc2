// Package textnorm turns free-form entity labels into a canonical comparison form.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases s and strips combining marks. It returns "" for "".
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// transformers are stateful, a fresh chain per call keeps Normalize re-entrant
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}

	// lower-casing after the strip catches letters whose lower form decomposes
	return strings.ToLower(strings.TrimSpace(out))
}

// Fold is Normalize followed by collapsing every run of non letter/digit
// runes into a single space, so "Castilla-La Mancha" and "castilla la  mancha"
// fold to the same string.
func Fold(s string) string {
	n := Normalize(s)
	if n == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(n))
	space := false
	for _, r := range n {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}

	return b.String()
}

// Equal reports whether a and b normalize to the same string.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
