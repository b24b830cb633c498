package candidate

import (
	"fmt"
	"strings"
)

// UnknownName is the label used when no resolution step can produce a name.
const UnknownName = "Unknown Candidate"

// StructuredName is the first step of the display-name cascade: the trimmed
// concatenation of the structured name fields. Empty when both are absent.
func (r Record) StructuredName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// EmailLocalPart is the third step of the cascade: the text before the @ of
// the email address. Empty when the email is absent or has no local part.
func (r Record) EmailLocalPart() string {
	email := strings.TrimSpace(r.Email)
	at := strings.Index(email, "@")
	if at <= 0 {
		return ""
	}
	return email[:at]
}

// OrdinalLabel is the last step of the cascade: a positional label that is
// unique only within the current batch. ordinal is 1-based.
func OrdinalLabel(ordinal int) string {
	return fmt.Sprintf("Candidate %d", ordinal)
}
