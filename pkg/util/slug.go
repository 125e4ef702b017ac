package util

import (
	"strings"
	"unicode"
)

// Slugify converts a name into a URL-safe slug: lowercase ASCII letters and
// digits separated by single hyphens ("Red T-Shirt" -> "red-t-shirt").
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
