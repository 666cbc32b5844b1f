package domain

import "regexp"

// idPattern matches the RFC 4122 textual identifier form used system-wide:
// hyphenated hex groups of 8-4-4-4-12, version nibble 1-5, variant nibble
// one of 8, 9, a, b. Matching is case-insensitive.
var idPattern = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// IsID reports whether s is a well-formed record identifier.
func IsID(s string) bool {
	return idPattern.MatchString(s)
}
