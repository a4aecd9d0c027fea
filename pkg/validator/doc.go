// Package validator provides small, composable validation rules.
//
// A Rule pairs a boolean Check with the ValidationError reported when the check
// fails. Rules are plain values with no shared state, so the same rule set can
// be evaluated on the interactive side of a flow and again at the trust
// boundary without drift.
//
// Three evaluation helpers cover the common strategies:
//
//   - Apply runs every rule and reports every failure.
//   - ApplyFields runs one chain per field and reports the first failure of
//     each chain, so a form shows one message per input.
//   - ApplyFirst stops at the first failure.
//
// Usage:
//
//	err := validator.ApplyFields(
//	    []validator.Rule{
//	        validator.WithMessage(validator.NotEmpty("email", email), "Email is required"),
//	        validator.WithMessage(validator.ValidEmailShape("email", email), "Email is invalid"),
//	    },
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    fmt.Println(verrs.Map())
//	}
//
// ValidationErrors implements error; use ExtractValidationErrors to recover
// field-level details from wrapped errors.
package validator
