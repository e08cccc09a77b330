package transport

import (
	"net/http"
	"net/url"
	"testing"
)

// TestNoAuth tests that NoAuth applies no authentication.
func TestNoAuth(t *testing.T) {
	auth := &NoAuth{}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req, "test-api-key")

	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}

// TestBearerAuth tests Bearer token authentication.
func TestBearerAuth(t *testing.T) {
	auth := &BearerAuth{}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req, "test-api-key")

	authHeader := req.Header.Get("Authorization")
	expected := "Bearer test-api-key"
	if authHeader != expected {
		t.Errorf("Expected Authorization header '%s', got '%s'", expected, authHeader)
	}
}

// TestHeaderAuth tests custom header authentication.
func TestHeaderAuth(t *testing.T) {
	auth := &HeaderAuth{Header: "x-api-key"}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req, "test-api-key")

	if got := req.Header.Get("x-api-key"); got != "test-api-key" {
		t.Errorf("Expected x-api-key header 'test-api-key', got '%s'", got)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header")
	}
}

// TestQueryAuth tests query parameter authentication.
func TestQueryAuth(t *testing.T) {
	auth := &QueryAuth{Param: "key"}

	reqURL, _ := url.Parse("https://example.com/catalog?existing=value")
	req := &http.Request{
		URL:    reqURL,
		Header: make(http.Header),
	}

	auth.Apply(req, "test-api-key")

	query := req.URL.Query()
	if query.Get("key") != "test-api-key" {
		t.Errorf("Expected query param 'key=test-api-key', got '%s'", query.Get("key"))
	}
	if query.Get("existing") != "value" {
		t.Errorf("Expected existing param to be preserved, got '%s'", query.Get("existing"))
	}

	// A nil URL must not panic.
	auth.Apply(&http.Request{Header: make(http.Header)}, "test-api-key")
}

// TestParseAuth tests building authenticators from configuration strings.
func TestParseAuth(t *testing.T) {
	tests := []struct {
		scheme string
		want   Authenticator
	}{
		{"", &NoAuth{}},
		{"none", &NoAuth{}},
		{"bearer", &BearerAuth{}},
		{"Bearer", &BearerAuth{}},
		{"unknown", &BearerAuth{}},
		{"header:X-Token", &HeaderAuth{Header: "X-Token"}},
		{"header", &HeaderAuth{Header: "X-API-Key"}},
		{"query:api_key", &QueryAuth{Param: "api_key"}},
		{"query", &QueryAuth{Param: "key"}},
	}
	for _, tt := range tests {
		t.Run(tt.scheme, func(t *testing.T) {
			got := ParseAuth(tt.scheme)
			switch want := tt.want.(type) {
			case *HeaderAuth:
				h, ok := got.(*HeaderAuth)
				if !ok || h.Header != want.Header {
					t.Errorf("ParseAuth(%q) = %#v, want %#v", tt.scheme, got, want)
				}
			case *QueryAuth:
				q, ok := got.(*QueryAuth)
				if !ok || q.Param != want.Param {
					t.Errorf("ParseAuth(%q) = %#v, want %#v", tt.scheme, got, want)
				}
			case *BearerAuth:
				if _, ok := got.(*BearerAuth); !ok {
					t.Errorf("ParseAuth(%q) = %#v, want bearer", tt.scheme, got)
				}
			case *NoAuth:
				if _, ok := got.(*NoAuth); !ok {
					t.Errorf("ParseAuth(%q) = %#v, want none", tt.scheme, got)
				}
			}
		})
	}
}
