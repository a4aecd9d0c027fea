package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ffmuc/social-registration/pkg/requestid"
)

const (
	tokenPath         = "/v1/oauth2/token"
	subscriptionsPath = "/v1/billing/subscriptions"
	maxResponseSize   = 1 << 20
	defaultTimeout    = 10 * time.Second
)

// Client calls the PayPal REST API with an app access token obtained through
// the OAuth2 client credentials grant. Tokens are cached and refreshed by
// the oauth2 transport.
type Client struct {
	baseURL    string
	httpClient *http.Client
	returnURL  string
	cancelURL  string
}

// Option configures the Client.
type Option func(*options)

type options struct {
	base *http.Client
}

// WithHTTPClient sets the client used for both token and API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		if hc != nil {
			o.base = hc
		}
	}
}

// New creates a client from cfg. Both the client id and the secret are required.
func New(cfg Config, opts ...Option) (*Client, error) {
	if !cfg.HasCredentials() {
		return nil, ErrMissingCredentials
	}
	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAPIURL, cfg.APIURL)
	}
	baseURL := strings.TrimRight(cfg.APIURL, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	o := &options{base: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(o)
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, o.base)
	hc := cc.Client(tokenCtx)
	hc.Timeout = o.base.Timeout

	return &Client{
		baseURL:    baseURL,
		httpClient: hc,
		returnURL:  cfg.ReturnURL,
		cancelURL:  cfg.CancelURL,
	}, nil
}

// GetSubscription fetches a billing subscription by id.
func (c *Client) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	if id == "" {
		return nil, ErrSubscriptionRequired
	}

	var sub Subscription
	err := c.do(ctx, http.MethodGet, subscriptionsPath+"/"+url.PathEscape(id), nil, &sub)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, errors.Join(ErrSubscriptionNotFound, err)
		}
		return nil, err
	}
	return &sub, nil
}

// VerifySubscription confirms that id exists, has been approved by the buyer
// and belongs to planID.
func (c *Client) VerifySubscription(ctx context.Context, id, planID string) error {
	sub, err := c.GetSubscription(ctx, id)
	if err != nil {
		return err
	}
	if !sub.Usable() {
		return fmt.Errorf("%w: status %s", ErrSubscriptionInactive, sub.Status)
	}
	if planID != "" && sub.PlanID != planID {
		return ErrPlanMismatch
	}
	return nil
}

// CreateSubscription starts a subscription for planID. The buyer approves
// it by visiting Subscription.ApproveURL.
func (c *Client) CreateSubscription(ctx context.Context, planID string) (*Subscription, error) {
	if planID == "" {
		return nil, ErrPlanRequired
	}

	body := createSubscriptionRequest{
		PlanID: planID,
		ApplicationContext: applicationContext{
			ShippingPreference: "NO_SHIPPING",
			UserAction:         "SUBSCRIBE_NOW",
			ReturnURL:          c.returnURL,
			CancelURL:          c.cancelURL,
		},
	}

	var sub Subscription
	if err := c.do(ctx, http.MethodPost, subscriptionsPath, body, &sub); err != nil {
		return nil, err
	}
	if sub.ApproveURL() == "" {
		return nil, ErrMissingApproveLink
	}
	return &sub, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestid.Propagate(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errors.Join(ErrUnavailable, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		if resp.StatusCode >= http.StatusInternalServerError {
			return errors.Join(ErrUnavailable, apiErr)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
