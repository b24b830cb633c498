package candidate

import (
	"regexp"
	"strings"
)

// Emails are the most stable identifier across repeated exports, so a
// well-formed email wins over the name composite. The shape check is
// deliberately loose: one @, no whitespace, a dot in the domain.
var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IdentityKey derives the deduplication/join key for the candidate. It is a
// pure function and never fails: with no usable fields it returns the
// degenerate "|" key, which the duplicate detector always treats as new.
func (r Record) IdentityKey() string {
	email := strings.ToLower(strings.TrimSpace(r.Email))
	if emailShape.MatchString(email) {
		return email
	}
	return normalizeNamePart(r.FirstName) + "|" + normalizeNamePart(r.LastName)
}

// Degenerate reports whether a key was built from all-empty fields. Such keys
// carry no identity and must never suppress a candidate as a duplicate.
func Degenerate(key string) bool {
	return strings.Trim(key, "|") == ""
}

var innerSpace = regexp.MustCompile(`\s+`)

func normalizeNamePart(s string) string {
	return innerSpace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}
