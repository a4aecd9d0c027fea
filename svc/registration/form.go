package registration

import (
	"regexp"

	"github.com/ffmuc/social-registration/pkg/validator"
)

// Field names as they appear on the wire and in validation errors.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldAcceptTerms     = "acceptTerms"
	FieldSubscriptionID  = "subscriptionId"
)

const (
	usernameMinLen = 4
	usernameMaxLen = 20
	passwordMinLen = 8
)

var usernameCharset = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Form is what the user typed into the sign-up form. It is never persisted.
type Form struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
}

// ValidateForm checks every field and reports the first failing rule of each,
// so an interactive form can show all problems at once.
func ValidateForm(f Form) error {
	return validator.ApplyFields(
		usernameRules(f.Username),
		emailRules(f.Email),
		passwordRules(f.Password),
		confirmPasswordRules(f.ConfirmPassword, f.Password),
		acceptTermsRules(f.AcceptTerms),
	)
}

func usernameRules(v string) []validator.Rule {
	return []validator.Rule{
		validator.WithMessage(validator.NotEmpty(FieldUsername, v), "Username is required"),
		validator.WithMessage(validator.MinLen(FieldUsername, v, usernameMinLen), "Username must be at least 4 characters"),
		validator.WithMessage(validator.MaxLen(FieldUsername, v, usernameMaxLen), "Username must not exceed 20 characters"),
		validator.WithMessage(
			validator.Matches(FieldUsername, v, usernameCharset, "username"),
			"Username must contain only letters, numbers, and underscores",
		),
	}
}

func emailRules(v string) []validator.Rule {
	return []validator.Rule{
		validator.WithMessage(validator.NotEmpty(FieldEmail, v), "Email is required"),
		validator.WithMessage(validator.ValidEmailShape(FieldEmail, v), "Email is invalid"),
	}
}

func passwordRules(v string) []validator.Rule {
	return []validator.Rule{
		validator.WithMessage(validator.NotEmpty(FieldPassword, v), "Password is required"),
		validator.WithMessage(validator.MinLen(FieldPassword, v, passwordMinLen), "Password must be at least 8 characters"),
	}
}

func confirmPasswordRules(v, password string) []validator.Rule {
	return []validator.Rule{
		validator.WithMessage(validator.NotEmpty(FieldConfirmPassword, v), "Confirm Password is required"),
		validator.WithMessage(validator.Equal(FieldConfirmPassword, v, password), "Confirm Password does not match"),
	}
}

func acceptTermsRules(v bool) []validator.Rule {
	return []validator.Rule{
		validator.WithMessage(validator.True(FieldAcceptTerms, v), "Accept Terms is required"),
	}
}
