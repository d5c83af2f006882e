package http_test

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/payload-community/payload-go/internal/auth"
	internalhttp "github.com/payload-community/payload-go/internal/http"
	"github.com/payload-community/payload-go/pkg/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGet(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodGet, r.Method)
		assert.Equal(t, "/api/posts", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "payload-go/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"docs":[]}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)

	resp, err := client.Get(context.Background(), "/api/posts", nil)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"docs":[]}`, string(resp.Body))
}

func TestClientGetWithQueryValues(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)

	query := url.Values{}
	query.Set("limit", "10")

	_, err := client.Get(context.Background(), "/api/posts", query)
	require.NoError(t, err)
}

func TestClientGetRawPreservesBrackets(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "where[title][equals]=foo&limit=5", r.URL.RawQuery)
		assert.Equal(t, "foo", r.URL.Query().Get("where[title][equals]"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)

	_, err := client.GetRaw(context.Background(), "/api/posts", "where[title][equals]=foo&limit=5")
	require.NoError(t, err)
}

func TestClientGetRawStripsPrefix(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "limit=5", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)

	_, err := client.GetRaw(context.Background(), "/api/posts", "?limit=5")
	require.NoError(t, err)
}

func TestClientPostSendsJSONBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["title"])

		w.WriteHeader(nethttp.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"created"}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)

	resp, err := client.Post(context.Background(), "/api/posts", map[string]string{"title": "hello"})
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusCreated, resp.StatusCode)
}

func TestClientSetsAuthorizationHeader(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "users API-Key secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	manager := auth.NewAPIKeyManager("users", "secret")
	client := internalhttp.NewClient(server.URL, manager)

	_, err := client.Get(context.Background(), "/api/posts", nil)
	require.NoError(t, err)
}

func TestClientDecodesAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(nethttp.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"name":"NotFound","message":"Not Found"}]}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)

	resp, err := client.Get(context.Background(), "/api/posts/missing", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)

	var respErr *payload.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, nethttp.StatusNotFound, respErr.StatusCode)
	require.NotNil(t, respErr.FirstError())
	assert.Equal(t, "Not Found", respErr.FirstError().Message)
	assert.True(t, payload.IsNotFound(err))
}

func TestClientErrorWithoutEnvelope(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusBadGateway)
		_, _ = w.Write([]byte("upstream broke"))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil,
		internalhttp.WithRetryConfig(internalhttp.RetryConfig{
			RetryMax:     0,
			RetryWaitMin: time.Millisecond,
			RetryWaitMax: time.Millisecond,
		}))

	_, err := client.Get(context.Background(), "/api/posts", nil)
	require.Error(t, err)

	var respErr *payload.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, nethttp.StatusBadGateway, respErr.StatusCode)
}

func TestClientRetriesServerErrors(t *testing.T) {
	t.Parallel()

	attempts := 0
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(nethttp.StatusServiceUnavailable)
			return
		}

		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil,
		internalhttp.WithRetryConfig(internalhttp.RetryConfig{
			RetryMax:     3,
			RetryWaitMin: time.Millisecond,
			RetryWaitMax: 5 * time.Millisecond,
		}))

	resp, err := client.Get(context.Background(), "/api/posts", nil)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, attempts)
}

func TestClientTokenFailureAbortsRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		t.Error("request should not be sent")
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, &failingTokenManager{})

	_, err := client.Get(context.Background(), "/api/posts", nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "getting auth token")
}

func TestClientHonorsRequestHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "fr", r.Header.Get("Accept-Language"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)

	_, err := client.Do(context.Background(), &internalhttp.Request{
		Method:  nethttp.MethodGet,
		Path:    "/api/posts",
		Headers: map[string]string{"Accept-Language": "fr"},
	})
	require.NoError(t, err)
}

func TestClientRunsInterceptors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "abc123", r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	var observed int

	chain := payload.NewInterceptorChain()
	chain.AddRequestInterceptor(payload.HeaderInterceptor(map[string]string{"X-Request-ID": "abc123"}))
	chain.AddResponseInterceptor(func(ctx context.Context, req *payload.Request, resp *payload.Response) error {
		observed = resp.StatusCode

		return nil
	})

	client := internalhttp.NewClient(server.URL, nil, internalhttp.WithInterceptors(chain))

	_, err := client.Get(context.Background(), "/api/posts", nil)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, observed)
}

func TestClientRequestInterceptorAborts(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		t.Error("request should not be sent")
	}))
	defer server.Close()

	chain := payload.NewInterceptorChain()
	chain.AddRequestInterceptor(func(ctx context.Context, req *payload.Request) error {
		return errors.New("rejected")
	})

	client := internalhttp.NewClient(server.URL, nil, internalhttp.WithInterceptors(chain))

	_, err := client.Get(context.Background(), "/api/posts", nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "request interceptor failed")
}

func TestClientCircuitBreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	requests := 0
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		requests++
		w.WriteHeader(nethttp.StatusInternalServerError)
	}))
	defer server.Close()

	breaker := payload.NewCircuitBreaker(&payload.CircuitBreakerConfig{
		Threshold:        1,
		Timeout:          time.Minute,
		SuccessThreshold: 1,
	})

	chain := payload.NewInterceptorChain()
	chain.AddRequestInterceptor(payload.CircuitBreakerRequestInterceptor(breaker))
	chain.AddResponseInterceptor(payload.CircuitBreakerResponseInterceptor(breaker))

	client := internalhttp.NewClient(server.URL, nil,
		internalhttp.WithInterceptors(chain),
		internalhttp.WithRetryConfig(internalhttp.RetryConfig{
			RetryMax:     0,
			RetryWaitMin: time.Millisecond,
			RetryWaitMax: time.Millisecond,
		}))

	_, err := client.Get(context.Background(), "/api/posts", nil)
	require.Error(t, err)

	// The first failure opened the circuit; the second call never leaves
	// the client.
	_, err = client.Get(context.Background(), "/api/posts", nil)
	require.ErrorIs(t, err, payload.ErrCircuitBreakerOpen)
	assert.Equal(t, 1, requests)
}

type failingTokenManager struct{}

func (m *failingTokenManager) GetToken(ctx context.Context) (string, error) {
	return "", errors.New("token store unavailable")
}

func (m *failingTokenManager) RefreshToken(ctx context.Context) error { return nil }

func (m *failingTokenManager) SetToken(token string, expiresAt time.Time) {}
