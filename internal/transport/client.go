// Package transport provides the authenticated HTTP client shared by the
// catalog source and the remote writer.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/agentstation/shelf/pkg/constants"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	http    *http.Client
	auth    Authenticator
	apiKey  string
	headers http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAPIKey sets the key passed to the authenticator.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		auth:    auth,
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request with authentication applied.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	// Logged before auth is applied so query keys never reach the log.
	logging.FromContext(ctx).Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Msg("HTTP request")

	if c.apiKey != "" {
		c.auth.Apply(req, c.apiKey)
	}
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	return c.Do(ctx, req)
}

// PostJSON encodes body as JSON and POSTs it.
func (c *Client) PostJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.WrapParse("json", "request body", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, errors.WrapResource("create", "request", "POST "+url, err)
	}
	return c.Do(ctx, req)
}

// DecodeResponse decodes a JSON response into target. Non-2xx responses
// become an APIError carrying the start of the body.
func DecodeResponse(resp *http.Response, target any) error {
	defer closeBody(resp)

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxResponseBytes))
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if err := statusError(resp, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint(resp), err)
	}
	return nil
}

// CheckResponse reports only whether resp succeeded; the body is discarded.
func CheckResponse(resp *http.Response) error {
	defer closeBody(resp)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, constants.MaxResponseBytes))
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return statusError(resp, body)
}

func statusError(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg := string(body)
	if len(msg) > 512 {
		msg = msg[:512]
	}
	return errors.NewAPIError(endpoint(resp), resp.StatusCode, msg)
}

func endpoint(resp *http.Response) string {
	if resp.Request != nil && resp.Request.URL != nil {
		u := *resp.Request.URL
		u.RawQuery = ""
		return u.Redacted()
	}
	return "unknown"
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close response body")
	}
}
