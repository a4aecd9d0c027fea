package registration

import (
	"strings"

	"github.com/ffmuc/social-registration/pkg/validator"
)

// Request is the JSON body of POST /api/register. Pointer fields distinguish
// "not sent" from an empty value.
type Request struct {
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	ConfirmPassword *string `json:"confirmPassword,omitempty"`
	AcceptTerms     *bool   `json:"acceptTerms,omitempty"`
	SubscriptionID  *string `json:"subscriptionId"`
	OrderID         *string `json:"orderId,omitempty"`
}

// NewRequest builds the wire request for an approved form.
func NewRequest(f Form, subscriptionID, orderID string) Request {
	req := Request{
		Username:        &f.Username,
		Email:           &f.Email,
		Password:        &f.Password,
		ConfirmPassword: &f.ConfirmPassword,
		AcceptTerms:     &f.AcceptTerms,
		SubscriptionID:  &subscriptionID,
	}
	if orderID != "" {
		req.OrderID = &orderID
	}
	return req
}

func value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// missingFields lists required fields that are absent or empty. A password
// made of spaces is content, as it is for the form rules.
func (r Request) missingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value *string
		trim  bool
	}{
		{FieldUsername, r.Username, true},
		{FieldEmail, r.Email, true},
		{FieldPassword, r.Password, false},
		{FieldSubscriptionID, r.SubscriptionID, true},
	} {
		if f.value == nil {
			missing = append(missing, f.name)
			continue
		}
		v := *f.value
		if f.trim {
			v = strings.TrimSpace(v)
		}
		if v == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// validate runs the form rules that apply to what the client sent and stops
// at the first violation. confirmPassword and acceptTerms are only checked
// when present.
func (r Request) validate() error {
	password := value(r.Password)

	rules := make([]validator.Rule, 0, 10)
	rules = append(rules, usernameRules(value(r.Username))...)
	rules = append(rules, emailRules(value(r.Email))...)
	rules = append(rules, passwordRules(password)...)
	if r.ConfirmPassword != nil {
		rules = append(rules, confirmPasswordRules(*r.ConfirmPassword, password)...)
	}
	if r.AcceptTerms != nil {
		rules = append(rules, acceptTermsRules(*r.AcceptTerms)...)
	}

	return validator.ApplyFirst(rules...)
}
