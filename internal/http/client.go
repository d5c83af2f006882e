// Package http wraps the underlying HTTP transport with retry, auth header
// injection, and Payload error decoding.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/payload-community/payload-go/internal/auth"
	"github.com/payload-community/payload-go/internal/constants"
	"github.com/payload-community/payload-go/pkg/payload"
)

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	// Query carries plain key/value parameters.
	Query url.Values
	// RawQuery carries a pre-encoded query string, typically produced by the
	// bracket-notation encoder. When set it takes precedence over Query.
	RawQuery string
	Body     interface{}
	Headers  map[string]string
}

// Response is the decoded transport result.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// RetryConfig tunes the retry behavior of the underlying client.
type RetryConfig struct {
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Client performs HTTP requests against a Payload instance.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager auth.TokenManager
	userAgent    string
	logger       payload.Logger
	debug        bool
	interceptors *payload.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger used for debug output.
func WithLogger(logger payload.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig overrides the retry settings.
func WithRetryConfig(config RetryConfig) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = config.RetryMax
		c.httpClient.RetryWaitMin = config.RetryWaitMin
		c.httpClient.RetryWaitMax = config.RetryWaitMax
	}
}

// WithInterceptors installs an interceptor chain. Request interceptors run
// after the built-in headers and auth injection, so they can observe or
// override them; response interceptors see the final status, body, and the
// decoded API error, if any.
func WithInterceptors(chain *payload.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithHTTPTimeout sets the per-request timeout.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// NewClient creates a transport for the given base URL. tokenManager may be
// nil for unauthenticated access.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	// Surface the final response when retries are exhausted so the Payload
	// error envelope can still be decoded.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   retryClient,
		tokenManager: tokenManager,
		userAgent:    constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes the request and returns the response. Responses with a 4xx or
// 5xx status are decoded into a *payload.ResponseError and returned as the
// error alongside the raw response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL, err := c.buildURL(req)
	if err != nil {
		return nil, err
	}

	var (
		body io.Reader
		data []byte
	)

	if req.Body != nil {
		data, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.setHeaders(httpReq, req)

	if c.tokenManager != nil {
		authorization, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting auth token: %w", err)
		}

		httpReq.Header.Set("Authorization", authorization)
	}

	// The interceptor request shares the outgoing header map, so header
	// mutations apply directly.
	var icReq *payload.Request

	if c.interceptors != nil {
		icReq = &payload.Request{
			Method:  req.Method,
			Path:    req.Path,
			Headers: httpReq.Header,
			Body:    data,
		}

		err = c.interceptors.ExecuteRequestInterceptors(ctx, icReq)
		if err != nil {
			return nil, err
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if c.interceptors != nil {
			_ = c.interceptors.ExecuteResponseInterceptors(ctx, icReq, &payload.Response{Error: err})
		}

		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status": httpResp.StatusCode,
			"bytes":  len(respBody),
		})
	}

	var respErr error
	if httpResp.StatusCode >= 400 {
		respErr = payload.ParseResponseError(httpResp.StatusCode, respBody)
	}

	if c.interceptors != nil {
		icResp := &payload.Response{
			StatusCode: httpResp.StatusCode,
			Headers:    httpResp.Header,
			Body:       respBody,
			Error:      respErr,
		}

		err = c.interceptors.ExecuteResponseInterceptors(ctx, icReq, icResp)
		if err != nil {
			return resp, err
		}
	}

	if respErr != nil {
		return resp, respErr
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// GetRaw performs a GET request with a pre-encoded query string.
func (c *Client) GetRaw(ctx context.Context, path, rawQuery string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, RawQuery: rawQuery})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func (c *Client) buildURL(req *Request) (string, error) {
	parsed, err := url.Parse(c.baseURL + req.Path)
	if err != nil {
		return "", fmt.Errorf("building request URL: %w", err)
	}

	switch {
	case req.RawQuery != "":
		parsed.RawQuery = strings.TrimPrefix(req.RawQuery, "?")
	case len(req.Query) > 0:
		parsed.RawQuery = req.Query.Encode()
	}

	return parsed.String(), nil
}

func (c *Client) setHeaders(httpReq *retryablehttp.Request, req *Request) {
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
}
