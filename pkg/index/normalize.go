// Package index builds query-able structural and full-text indexes over a
// legaldoc.Document and answers citation-path, unit-type, and term lookups
// without re-walking the tree per query.
package index

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes characters and strips combining marks, so that
// "cidadão" and "cidadao" normalize to the same form. Legal Portuguese is
// accent-heavy and portal users rarely type the accents. Compatibility
// decomposition also folds the ordinal indicators ("5º" matches "5o").
var foldAccents = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize maps a string to its canonical search form: lowercase, accents
// folded, punctuation and all other non-alphanumeric runes collapsed to
// single spaces. The mapping is deterministic and total; any input yields
// exactly one normalized form.
func Normalize(s string) string {
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		// Remove never fails on valid UTF-8; on broken input fall back to
		// the raw string so the function stays total.
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokenize normalizes s and splits it into search tokens. The result is
// empty when s carries no alphanumeric content.
func Tokenize(s string) []string {
	normalized := Normalize(s)
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}
