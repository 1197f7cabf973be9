package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName collapses a display name down to a comparable key:
// lowercase, trimmed, inner whitespace removed. Channel names come back
// from the upstream with inconsistent casing and padding, so every name
// is normalized before fuzzy comparison.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}
