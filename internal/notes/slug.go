package notes

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify keeps ASCII letters (lowercased, accents folded away) and turns
// runs of spaces into single dashes. A trailing space never adds a dash.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	out := make([]byte, 0, len(folded))
	for i := 0; i < len(folded); i++ {
		c := folded[i]
		switch {
		case c >= 'A' && c <= 'Z':
			out = append(out, c+'a'-'A')
		case c >= 'a' && c <= 'z':
			out = append(out, c)
		case c == ' ' && i != len(folded)-1 && (len(out) == 0 || out[len(out)-1] != '-'):
			out = append(out, '-')
		}
	}
	return string(out)
}
