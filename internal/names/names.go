// Package names canonicalizes player names so that signals persisted from
// bookmaker feeds can be joined against the live score feed, which spells
// names with different punctuation, accents, and suffixes.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the join key for a player name: lower-cased, accents
// stripped, everything but letters removed. Two distinct players can
// collide on the same key; the reconciler treats that as last write wins.
func Normalize(name string) string {
	name = strings.ToLower(name)

	// Decompose and drop combining marks: "Dāvis Bertāns" -> "davis bertans"
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	name, _, _ = transform.String(t, name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
