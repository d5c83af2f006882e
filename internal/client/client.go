// Package client implements the Payload API client behind the public
// interfaces in pkg/payload.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/payload-community/payload-go/internal/auth"
	"github.com/payload-community/payload-go/internal/constants"
	internalhttp "github.com/payload-community/payload-go/internal/http"
	"github.com/payload-community/payload-go/pkg/payload"
)

// Client is the concrete payload.Client implementation.
type Client struct {
	config      *payload.Config
	httpClient  *internalhttp.Client
	cache       payload.Cache
	collections *CollectionsClient
	globals     *GlobalsClient
	auth        *AuthClient
}

// New creates a client from the given configuration.
func New(config *payload.Config) (*Client, error) {
	if config == nil {
		return nil, payload.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, payload.ErrBaseURLRequired
	}

	tokenManager := createTokenManager(config)

	opts := []internalhttp.Option{
		internalhttp.WithDebug(config.Debug),
	}

	if config.Logger != nil {
		opts = append(opts, internalhttp.WithLogger(config.Logger))
	} else if config.Debug {
		opts = append(opts, internalhttp.WithLogger(&defaultLogger{}))
	}

	if config.UserAgent != "" {
		opts = append(opts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, internalhttp.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.Interceptors != nil {
		opts = append(opts, internalhttp.WithInterceptors(config.Interceptors))
	}

	if config.RetryMax > 0 || config.RetryWaitMin > 0 || config.RetryWaitMax > 0 {
		retry := internalhttp.RetryConfig{
			RetryMax:     config.RetryMax,
			RetryWaitMin: config.RetryWaitMin,
			RetryWaitMax: config.RetryWaitMax,
		}
		if retry.RetryMax == 0 {
			retry.RetryMax = constants.DefaultRetryMax
		}

		if retry.RetryWaitMin == 0 {
			retry.RetryWaitMin = constants.DefaultRetryWaitMin
		}

		if retry.RetryWaitMax == 0 {
			retry.RetryWaitMax = constants.DefaultRetryWaitMax
		}

		opts = append(opts, internalhttp.WithRetryConfig(retry))
	}

	httpClient := internalhttp.NewClient(config.BaseURL, tokenManager, opts...)

	// Caching is opt-in; without a cache config reads always hit the API.
	var cache payload.Cache = payload.NewNoOpCache()

	if config.Cache != nil {
		configured, err := payload.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("creating cache: %w", err)
		}

		cache = configured
	}

	client := &Client{
		config:     config,
		httpClient: httpClient,
		cache:      cache,
	}

	client.collections = &CollectionsClient{client: client}
	client.globals = &GlobalsClient{client: client}
	client.auth = &AuthClient{client: client, tokenManager: tokenManager}

	return client, nil
}

// createTokenManager picks the credential type from the config. Precedence:
// API key, then static token, then email/password login, then none. An API
// key combined with login credentials yields a fallback manager that uses
// the key first.
func createTokenManager(config *payload.Config) auth.TokenManager {
	collection := config.AuthCollection
	if collection == "" {
		collection = constants.DefaultAuthCollection
	}

	switch {
	case config.APIKey != "" && config.Email != "" && config.Password != "":
		return auth.NewFallbackTokenManager(
			auth.NewAPIKeyManager(collection, config.APIKey),
			auth.NewLoginTokenManager(&auth.LoginConfig{
				BaseURL:    config.BaseURL,
				Collection: collection,
				Email:      config.Email,
				Password:   config.Password,
			}),
		)
	case config.APIKey != "":
		return auth.NewAPIKeyManager(collection, config.APIKey)
	case config.Token != "":
		return auth.NewStaticTokenManager(config.Token)
	case config.Email != "" && config.Password != "":
		return auth.NewLoginTokenManager(&auth.LoginConfig{
			BaseURL:    config.BaseURL,
			Collection: collection,
			Email:      config.Email,
			Password:   config.Password,
		})
	default:
		return nil
	}
}

// Collections returns the collections API.
func (c *Client) Collections() payload.CollectionsClient {
	return c.collections
}

// Globals returns the globals API.
func (c *Client) Globals() payload.GlobalsClient {
	return c.globals
}

// Auth returns the auth API.
func (c *Client) Auth() payload.AuthClient {
	return c.auth
}

// Access fetches what the current credentials are permitted to do.
func (c *Client) Access(ctx context.Context) (*payload.AccessResponse, error) {
	resp, err := c.httpClient.GetRaw(ctx, "/api/access", "")
	if err != nil {
		return nil, fmt.Errorf("fetching access: %w", err)
	}

	var access payload.AccessResponse

	err = json.Unmarshal(resp.Body, &access)
	if err != nil {
		return nil, fmt.Errorf("parsing access response: %w", err)
	}

	return &access, nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	if closer, ok := c.cache.(interface{ Close() error }); ok {
		return closer.Close()
	}

	return nil
}

func (c *Client) authCollection() string {
	if c.config.AuthCollection != "" {
		return c.config.AuthCollection
	}

	return constants.DefaultAuthCollection
}

// defaultLogger writes structured fields through the standard logger. Used
// when debug is on but no logger was supplied.
type defaultLogger struct{}

func (l *defaultLogger) Debug(message string, fields map[string]interface{}) {
	log.Printf("DEBUG: %s %v", message, fields)
}

func (l *defaultLogger) Info(message string, fields map[string]interface{}) {
	log.Printf("INFO: %s %v", message, fields)
}

func (l *defaultLogger) Warn(message string, fields map[string]interface{}) {
	log.Printf("WARN: %s %v", message, fields)
}

func (l *defaultLogger) Error(message string, fields map[string]interface{}) {
	log.Printf("ERROR: %s %v", message, fields)
}

// queryString renders a query builder into a raw query string, or "" when
// the query is nil.
func queryString(query *payload.QueryBuilder) string {
	if query == nil {
		return ""
	}

	encoder := payload.NewEncoder(payload.WithoutQueryPrefix())

	return encoder.Stringify(query.Build())
}
