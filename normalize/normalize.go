// Package normalize folds artist names down to a stable lookup key:
// strip diacritics, trim, lowercase, and collapse internal whitespace
// (spec §4.G). It does not transliterate: characters with no
// decomposition to a base letter stay as they are. The same fold is applied when the name lookup
// table is built and when a query name is resolved, so the two sides
// always agree on a key.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold decomposes runes to NFKD and strips combining marks, which
// gets accented Latin text (Beyoncé, Mötley Crüe) down to plain ASCII the
// way the original's unidecode call did. Runes with no such decomposition
// (ø, æ, ß, and letters of non-Latin scripts) are left as-is rather than
// dropped or transliterated, so the result is not always ASCII.
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Name returns the normalized lookup key for an artist display name.
func Name(s string) string {
	folded, _, err := transform.String(asciiFold, s)
	if err != nil {
		folded = s
	}
	folded = strings.TrimSpace(folded)
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}
