package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const slugStripChars = `*+~.()'"!:@?,`

var slugReplacer = strings.NewReplacer("&", " and ")

// Slugify turns a title into a URL-safe slug. It is lossy: distinct titles
// may produce the same slug.
func Slugify(title string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		title,
	)
	if err != nil {
		folded = title
	}
	folded = slugReplacer.Replace(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case strings.ContainsRune(slugStripChars, r):
			continue
		case r == '-' || unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return strings.Join(strings.Fields(b.String()), "-")
}
