package validator

// Equal validates that value equals other, e.g. a password confirmation.
func Equal[T comparable](field string, value, other T) Rule {
	return Rule{
		Check: func() bool {
			return value == other
		},
		Error: ValidationError{
			Field:   field,
			Message: "does not match",
		},
	}
}

// True validates that a boolean flag is set, e.g. consent checkboxes.
func True(field string, value bool) Rule {
	return Rule{
		Check: func() bool {
			return value
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be accepted",
		},
	}
}
