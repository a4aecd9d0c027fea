package paypal

// Subscription statuses that matter for registration.
const (
	StatusApprovalPending = "APPROVAL_PENDING"
	StatusApproved        = "APPROVED"
	StatusActive          = "ACTIVE"
	StatusSuspended       = "SUSPENDED"
	StatusCancelled       = "CANCELLED"
	StatusExpired         = "EXPIRED"
)

// Link is a HATEOAS link returned with PayPal resources.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

// Subscription is the subset of the billing subscription resource used here.
type Subscription struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	PlanID string `json:"plan_id"`
	Links  []Link `json:"links,omitempty"`
}

// Usable reports whether the subscriber has completed checkout.
func (s Subscription) Usable() bool {
	return s.Status == StatusApproved || s.Status == StatusActive
}

// ApproveURL returns the link the buyer must visit to approve the subscription.
func (s Subscription) ApproveURL() string {
	for _, l := range s.Links {
		if l.Rel == "approve" {
			return l.Href
		}
	}
	return ""
}

type applicationContext struct {
	BrandName          string `json:"brand_name,omitempty"`
	ShippingPreference string `json:"shipping_preference"`
	UserAction         string `json:"user_action"`
	ReturnURL          string `json:"return_url,omitempty"`
	CancelURL          string `json:"cancel_url,omitempty"`
}

type createSubscriptionRequest struct {
	PlanID             string             `json:"plan_id"`
	CustomID           string             `json:"custom_id,omitempty"`
	ApplicationContext applicationContext `json:"application_context"`
}
