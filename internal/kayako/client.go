package kayako

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"kayakomcp/internal/logging"
)

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of an upstream response is read.
const maxResponseBytes = 8 << 20

// snippetLen is how much of the body a generic client error carries.
const snippetLen = 200

// reservedParams are injected by the client; a caller supplying one of
// them is a defect, not a merge.
var reservedParams = []string{"apikey", "salt", "signature"}

// ClientConfig carries the validated credential triple and call bounds
// into the client. It is the single construction point for upstream
// access; no other code reads credentials.
type ClientConfig struct {
	BaseURL   string
	APIKey    string
	SecretKey string
	Timeout   time.Duration
}

// Client issues authenticated requests against the Kayako Classic REST
// API and normalizes the XML responses. It is stateless apart from the
// read-only configuration and safe for concurrent use; every call is a
// fresh round trip with a freshly generated signature.
type Client struct {
	baseURL    string
	apiKey     string
	secretKey  string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient builds a client. Missing credentials do not fail
// construction; every Request fails fast with ErrUnconfigured instead,
// so the server can start and report configuration problems per call.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		secretKey: cfg.SecretKey,
		timeout:   timeout,
		// Timeout is enforced per request via context so cancellation
		// composes with caller deadlines.
		httpClient: &http.Client{},
	}
}

// Configured reports whether the credential triple is complete.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != "" && c.secretKey != ""
}

// Get issues an authenticated GET request.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (*Node, error) {
	return c.Request(ctx, http.MethodGet, endpoint, params)
}

// Post issues an authenticated POST request with form-encoded parameters.
func (c *Client) Post(ctx context.Context, endpoint string, params url.Values) (*Node, error) {
	return c.Request(ctx, http.MethodPost, endpoint, params)
}

// Request performs exactly one authenticated round trip: sign, send,
// normalize. Retry policy, if any, belongs to the caller.
func (c *Client) Request(ctx context.Context, method, endpoint string, params url.Values) (*Node, error) {
	if !c.Configured() {
		return nil, ErrUnconfigured
	}
	if params == nil {
		params = url.Values{}
	}
	for _, key := range reservedParams {
		if params.Has(key) {
			return nil, fmt.Errorf("%w: %s", ErrReservedParam, key)
		}
	}

	sig := GenerateSignature(c.apiKey, c.secretKey)
	params.Set("apikey", sig.APIKey)
	params.Set("salt", sig.Salt)
	params.Set("signature", sig.Signature)

	reqID := uuid.NewString()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(ctx, method, endpoint, params)
	if err != nil {
		return nil, err
	}

	logging.APIDebug("[req:%s] %s %s", reqID, method, endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransport(err)
	}

	logging.APIDebug("[req:%s] status=%d bytes=%d latency=%dms",
		reqID, resp.StatusCode, len(body), time.Since(start).Milliseconds())

	if err := classifyStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	node, err := Normalize(string(body))
	if err != nil {
		// Already wraps ErrMalformedInput.
		return nil, err
	}
	return node, nil
}

// buildRequest places parameters in the query string for GET and in a
// form-encoded body for everything else, matching the upstream wire
// protocol.
func (c *Client) buildRequest(ctx context.Context, method, endpoint string, params url.Values) (*http.Request, error) {
	target := c.baseURL + endpoint
	if method == http.MethodGet {
		req, err := http.NewRequestWithContext(ctx, method, target, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		req.URL.RawQuery = params.Encode()
		return req, nil
	}

	req, err := http.NewRequestWithContext(ctx, method, target, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

// classifyStatus maps HTTP status ranges onto the error taxonomy.
func classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrAuthFailed
	case status == http.StatusForbidden:
		return ErrPermissionDenied
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return NewStatusError(status, "", ErrServerError)
	case status >= 400:
		return NewStatusError(status, snippet(body), ErrBadRequest)
	default:
		return nil
	}
}

// classifyTransport distinguishes the enforced timeout from other
// transport failures.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// snippet returns the first snippetLen characters of the body.
func snippet(body []byte) string {
	s := string(body)
	if len(s) > snippetLen {
		s = s[:snippetLen]
	}
	return s
}
