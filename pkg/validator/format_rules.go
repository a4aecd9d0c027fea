package validator

import (
	"strings"
	"unicode"
)

// ValidEmailShape performs a conservative structural check instead of a full
// RFC 5322 parse: exactly one "@", non-empty local and domain parts, no
// whitespace, and a domain containing a dot that is neither its first nor
// its last character.
func ValidEmailShape(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return isEmailShape(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid email address",
		},
	}
}

func isEmailShape(value string) bool {
	if value == "" || strings.IndexFunc(value, unicode.IsSpace) != -1 {
		return false
	}

	local, domain, ok := strings.Cut(value, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	if strings.Contains(domain, "@") {
		return false
	}

	dot := strings.Index(domain, ".")
	if dot < 1 {
		return false
	}

	return !strings.HasSuffix(domain, ".")
}
