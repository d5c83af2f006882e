package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/payload-community/payload-go/pkg/payload"
	"github.com/stretchr/testify/require"
)

// newTestClient starts an httptest server with the given handler and returns
// a client targeting it. The server is closed when the test finishes.
func newTestClient(t *testing.T, handler http.HandlerFunc, configure ...func(*payload.Config)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := &payload.Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
	}

	for _, fn := range configure {
		fn(config)
	}

	client, err := New(config)
	require.NoError(t, err)

	return client
}

// writeJSON writes v as a JSON response body.
func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}
