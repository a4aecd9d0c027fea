package validator

import (
	"fmt"
	"regexp"
)

// Matches validates value against a precompiled pattern.
// Empty values never match; pair with a required rule for a clearer message.
func Matches(field, value string, re *regexp.Regexp, description string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return false
			}
			return re.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must match %s pattern", description),
		},
	}
}
