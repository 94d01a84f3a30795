package document

import "strings"

// ContactKind is the explicit classification of a contact entry. Extraction
// produces a kind from icon hints or text heuristics; ContactUnknown entries
// never enter a Document.
type ContactKind int

// Contact kinds, in heuristic precedence order.
const (
	ContactUnknown ContactKind = iota
	ContactPhone
	ContactEmail
	ContactLocation
)

// String returns the JSON key for the kind.
func (k ContactKind) String() string {
	switch k {
	case ContactPhone:
		return "phone"
	case ContactEmail:
		return "email"
	case ContactLocation:
		return "location"
	default:
		return "unknown"
	}
}

// ClassifyText classifies a contact entry's display text. The heuristics are
// pure functions over plain text, independent of any markup representation:
// a value containing "@" is an email, a value that is mostly telephone
// characters with enough digits is a phone number, any other non-empty value
// is a location.
func ClassifyText(text string) ContactKind {
	text = strings.TrimSpace(text)
	if text == "" {
		return ContactUnknown
	}
	if strings.Contains(text, "@") {
		return ContactEmail
	}
	if looksLikePhone(text) {
		return ContactPhone
	}
	return ContactLocation
}

// looksLikePhone reports whether text is composed of phone characters
// (digits, "+", separators) with at least six digits.
func looksLikePhone(text string) bool {
	digits := 0
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == '(' || r == ')' || r == '.' || r == '/' || r == ' ':
			// separator, fine
		default:
			return false
		}
	}
	return digits >= 6
}
