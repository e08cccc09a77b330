package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/shelf/pkg/errors"
)

func TestClient_GetAppliesAuthAndHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "shelf-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := New(&BearerAuth{}, WithAPIKey("secret"), WithHeader("User-Agent", "shelf-test"))
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)

	var body map[string]bool
	require.NoError(t, DecodeResponse(resp, &body))
	assert.True(t, body["ok"])
}

func TestClient_NoKeyNoAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	resp, err := New(&BearerAuth{}).Get(context.Background(), server.URL)
	require.NoError(t, err)
	require.NoError(t, CheckResponse(resp))
}

func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "add", payload["action"])
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	resp, err := New(nil).PostJSON(context.Background(), server.URL, map[string]string{"action": "add"})
	require.NoError(t, err)
	assert.NoError(t, CheckResponse(resp))
}

func TestDecodeResponse_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.Error(w, "no such catalog", http.StatusNotFound)
		default:
			_, _ = w.Write([]byte(`{not json`))
		}
	}))
	defer server.Close()

	client := New(&QueryAuth{Param: "key"}, WithAPIKey("secret"))
	ctx := context.Background()

	resp, err := client.Get(ctx, server.URL+"/missing")
	require.NoError(t, err)
	err = DecodeResponse(resp, &struct{}{})
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "no such catalog")
	assert.NotContains(t, apiErr.Endpoint, "secret")

	resp, err = client.Get(ctx, server.URL+"/bad")
	require.NoError(t, err)
	err = DecodeResponse(resp, &struct{}{})
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "json", parseErr.Format)
}
