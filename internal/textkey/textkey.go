// Package textkey builds comparison keys for accent- and case-insensitive search.
package textkey

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds text into a key suitable for substring matching: diacritics are
// stripped, letters lower-cased and runs of whitespace collapsed to a single space.
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Contains reports whether the normalized form of text contains the normalized query.
// An empty query matches everything.
func Contains(text, query string) bool {
	return strings.Contains(Normalize(text), Normalize(query))
}
