// Package slug derives URL-safe identifiers from manga titles.
// One implementation is used everywhere a slug is computed.
package slug

import "strings"

// translit maps accented characters to their closest ASCII form before
// the non-alphanumeric sweep would otherwise drop them.
var translit = map[rune]string{
	'ç': "c", 'Ç': "c",
	'ğ': "g", 'Ğ': "g",
	'ı': "i", 'İ': "i",
	'ö': "o", 'Ö': "o",
	'ş': "s", 'Ş': "s",
	'ü': "u", 'Ü': "u",
	'â': "a", 'Â': "a",
	'î': "i", 'Î': "i",
	'û': "u", 'Û': "u",
	'á': "a", 'à': "a", 'ä': "a", 'ã': "a", 'å': "a",
	'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
	'í': "i", 'ì': "i", 'ï': "i",
	'ó': "o", 'ò': "o", 'ô': "o", 'õ': "o",
	'ú': "u", 'ù': "u",
	'ñ': "n",
}

// Make converts a title to a slug: lowercase ASCII letters, digits and
// single hyphens only, with no leading or trailing hyphen. Deterministic
// and idempotent.
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r == '&':
			b.WriteString(" ve ")
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '-' || r == '_':
			b.WriteByte(' ')
		default:
			if t, ok := translit[r]; ok {
				b.WriteString(t)
			}
			// anything else is dropped
		}
	}

	fields := strings.Fields(b.String())
	return strings.Join(fields, "-")
}
