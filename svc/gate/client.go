package gate

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

	"github.com/ffmuc/social-registration/pkg/requestid"
	"github.com/ffmuc/social-registration/svc/publicconfig"
	"github.com/ffmuc/social-registration/svc/registration"
)

const (
	registerPath     = "/api/register"
	publicConfigPath = "/api/public-config"

	defaultClientTimeout = 30 * time.Second
	maxResponseSize      = 1 << 20
)

var ErrInvalidBaseURL = errors.New("invalid base url")

// ClientOption configures the HTTP registrar and config source.
type ClientOption func(*apiClient)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *apiClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAPIClient(baseURL string, opts []ClientOption) (apiClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apiClient{}, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := apiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultClientTimeout},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c, nil
}

// do sends the request and returns the status and a size-capped body.
func (c apiClient) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestid.Propagate(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

// errorField extracts the "error" string of a JSON error body.
func errorField(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Error
}

// HTTPRegistrar submits registrations to the server's register endpoint.
type HTTPRegistrar struct {
	client apiClient
}

// NewHTTPRegistrar creates a registrar for the server at baseURL.
func NewHTTPRegistrar(baseURL string, opts ...ClientOption) (*HTTPRegistrar, error) {
	c, err := newAPIClient(baseURL, opts)
	if err != nil {
		return nil, err
	}
	return &HTTPRegistrar{client: c}, nil
}

// Register posts req. Transport failures are joined with ErrNetwork; any
// non-200 answer becomes a *RegistrationError carrying the server's message.
func (r *HTTPRegistrar) Register(ctx context.Context, req registration.Request) error {
	status, raw, err := r.client.do(ctx, http.MethodPost, registerPath, req)
	if err != nil {
		return errors.Join(ErrNetwork, err)
	}
	if status == http.StatusOK {
		return nil
	}

	msg := errorField(raw)
	if msg == "" {
		msg = MessageRegisterFailed
	}
	return &RegistrationError{StatusCode: status, Message: msg}
}

// HTTPConfigSource loads the public configuration from the server.
type HTTPConfigSource struct {
	client apiClient
}

// NewHTTPConfigSource creates a config source for the server at baseURL.
func NewHTTPConfigSource(baseURL string, opts ...ClientOption) (*HTTPConfigSource, error) {
	c, err := newAPIClient(baseURL, opts)
	if err != nil {
		return nil, err
	}
	return &HTTPConfigSource{client: c}, nil
}

// PublicConfig fetches the checkout configuration. Failures are reported as
// *ConfigError.
func (s *HTTPConfigSource) PublicConfig(ctx context.Context) (publicconfig.PublicConfig, error) {
	status, raw, err := s.client.do(ctx, http.MethodGet, publicConfigPath, nil)
	if err != nil {
		return publicconfig.PublicConfig{}, errors.Join(&ConfigError{}, err)
	}
	if status != http.StatusOK {
		return publicconfig.PublicConfig{}, &ConfigError{StatusCode: status, Message: errorField(raw)}
	}

	var pc publicconfig.PublicConfig
	if err := json.Unmarshal(raw, &pc); err != nil {
		return publicconfig.PublicConfig{}, errors.Join(&ConfigError{StatusCode: status}, err)
	}
	if pc.PaymentClientID == "" {
		pc.PaymentClientID = pc.PaypalClientID
	}
	if pc.PlanID == "" {
		pc.PlanID = pc.PaypalPlanID
	}
	return pc, nil
}
