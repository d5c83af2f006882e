//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/payload-community/payload-go/pkg/payload"
	"github.com/payload-community/payload-go/pkg/payloadclient"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	ServerURL      string
	APIKey         string
	Email          string
	Password       string
	AuthCollection string
	Collection     string
	Verbose        bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	collection := os.Getenv("PAYLOAD_TEST_COLLECTION")
	if collection == "" {
		collection = "posts"
	}

	return &TestConfig{
		ServerURL:      os.Getenv("PAYLOAD_URL"),
		APIKey:         os.Getenv("PAYLOAD_API_KEY"),
		Email:          os.Getenv("PAYLOAD_EMAIL"),
		Password:       os.Getenv("PAYLOAD_PASSWORD"),
		AuthCollection: os.Getenv("PAYLOAD_AUTH_COLLECTION"),
		Collection:     collection,
		Verbose:        os.Getenv("PAYLOAD_VERBOSE") == "true",
	}
}

// SkipIfMissingConfig skips the test when no server is configured.
func (c *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if c.ServerURL == "" {
		t.Skip("PAYLOAD_URL not set, skipping integration test")
	}

	if c.APIKey == "" && (c.Email == "" || c.Password == "") {
		t.Skip("no credentials configured, skipping integration test")
	}
}

// NewClient creates a client from the test configuration.
func (c *TestConfig) NewClient(ctx context.Context, t *testing.T) payload.Client {
	t.Helper()

	client, err := payloadclient.New(ctx, &payload.Config{
		BaseURL:        c.ServerURL,
		APIKey:         c.APIKey,
		Email:          c.Email,
		Password:       c.Password,
		AuthCollection: c.AuthCollection,
		Debug:          c.Verbose,
	})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	return client
}

// GenerateTestName creates a unique name for test documents.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// CleanupDocument deletes a document, ignoring failures.
func CleanupDocument(ctx context.Context, client payload.Client, collection, id string) {
	if id == "" {
		return
	}

	_, _ = client.Collections().Delete(ctx, collection, id)
}
