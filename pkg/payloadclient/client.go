// Package payloadclient provides the main entry point for creating Payload
// API clients.
package payloadclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/payload-community/payload-go/internal/client"
	"github.com/payload-community/payload-go/pkg/payload"
)

// New creates a new Payload API client from the given configuration.
func New(ctx context.Context, config *payload.Config) (payload.Client, error) {
	if config == nil {
		return nil, payload.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, payload.ErrBaseURLRequired
	}

	// Normalize the base URL
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	config.BaseURL = baseURL

	// Eagerly exchange email/password credentials for a token so that
	// misconfigured credentials fail here rather than on the first request.
	payloadClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	if config.Email != "" && config.Password != "" && config.APIKey == "" && config.Token == "" {
		_, err := payloadClient.Auth().Login(ctx, config.AuthCollection, config.Email, config.Password)
		if err != nil {
			return nil, fmt.Errorf("authenticating with credentials: %w", err)
		}
	}

	return payloadClient, nil
}
