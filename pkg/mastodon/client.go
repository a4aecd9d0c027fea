package mastodon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ffmuc/social-registration/pkg/requestid"
)

const (
	accountsPath           = "/api/v1/accounts"
	defaultTimeout         = 10 * time.Second
	defaultMaxResponseSize = 1 << 20
)

// Account is the sign-up payload accepted by POST /api/v1/accounts.
type Account struct {
	Username string
	Email    string
	Password string
	Locale   string
	Reason   string
}

func (a Account) form() url.Values {
	v := url.Values{}
	v.Set("username", a.Username)
	v.Set("email", a.Email)
	v.Set("password", a.Password)
	v.Set("agreement", "true")
	if a.Locale != "" {
		v.Set("locale", a.Locale)
	}
	if a.Reason != "" {
		v.Set("reason", a.Reason)
	}
	return v
}

// Client talks to a single Mastodon instance with an application token
// that carries the write:accounts scope.
type Client struct {
	baseURL         string
	token           string
	httpClient      *http.Client
	maxResponseSize int64
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each upstream call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d, Transport: c.httpClient.Transport}
		}
	}
}

// WithMaxResponseSize caps how much of an upstream body is read.
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResponseSize = n
		}
	}
}

// New returns a client for the instance at baseURL. An empty token is
// accepted; CreateAccount then fails with ErrNotConfigured.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, baseURL)
	}

	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		token:           token,
		httpClient:      &http.Client{Timeout: defaultTimeout},
		maxResponseSize: defaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Configured reports whether an API token is set.
func (c *Client) Configured() bool {
	return c.token != ""
}

// CreateAccount registers a new account. It returns nil only on 200 OK.
// Transport failures are joined with ErrUnreachable and any other status
// is returned as *APIError.
func (c *Client) CreateAccount(ctx context.Context, acc Account) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+accountsPath, strings.NewReader(acc.form().Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	requestid.Propagate(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize))
	if err != nil {
		return errors.Join(ErrUnreachable, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        body,
		}
	}
	return nil
}
