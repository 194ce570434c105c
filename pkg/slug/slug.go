package slug

import (
	"strings"
	"unicode"
)

// Make converts an arbitrary name into a URL- and DNS-safe slug: lowercase
// ASCII letters, digits and single hyphens, trimmed at the edges.
func Make(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		case unicode.IsSpace(r), r == '-', r == '_', r == '.':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// IsValid reports whether s already is a well-formed slug.
func IsValid(s string) bool {
	return s != "" && s == Make(s)
}
