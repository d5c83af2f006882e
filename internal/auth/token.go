// Package auth provides credential managers for the Payload API. A
// TokenManager produces the full Authorization header value for a request,
// refreshing underlying tokens where the credential type supports it.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Static errors for credential handling.
var (
	ErrAPIKeyCannotRefresh = errors.New("API key credentials cannot be refreshed")
	ErrStaticCannotRefresh = errors.New("static token cannot be refreshed")
	ErrLoginFailed         = errors.New("login request failed")
	ErrRefreshFailed       = errors.New("token refresh request failed")
)

// expiryBuffer is how long before expiry a JWT is considered stale.
const expiryBuffer = 30 * time.Second

// TokenManager supplies the Authorization header value for requests.
type TokenManager interface {
	// GetToken returns the full Authorization header value, e.g.
	// "users API-Key abc" or "JWT eyJ...".
	GetToken(ctx context.Context) (string, error)
	// RefreshToken forces renewal of the underlying credential.
	RefreshToken(ctx context.Context) error
	// SetToken replaces the stored credential.
	SetToken(token string, expiresAt time.Time)
}

// token is one stored credential with its expiry.
type token struct {
	value     string
	expiresAt time.Time
}

func (t *token) valid() bool {
	if t == nil || t.value == "" {
		return false
	}

	// Zero expiry means the credential does not expire.
	if t.expiresAt.IsZero() {
		return true
	}

	return time.Now().Add(expiryBuffer).Before(t.expiresAt)
}

// tokenStore guards a credential for concurrent readers.
type tokenStore struct {
	mu    sync.RWMutex
	token *token
}

func (s *tokenStore) get() *token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

func (s *tokenStore) set(value string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = &token{value: value, expiresAt: expiresAt}
}

// APIKeyManager authenticates with a collection API key. The credential never
// expires and cannot be refreshed.
type APIKeyManager struct {
	collection string
	key        string
}

// NewAPIKeyManager creates a manager for a collection API key.
func NewAPIKeyManager(collection, key string) *APIKeyManager {
	return &APIKeyManager{collection: collection, key: key}
}

// GetToken returns the API key header value.
func (m *APIKeyManager) GetToken(ctx context.Context) (string, error) {
	return fmt.Sprintf("%s API-Key %s", m.collection, m.key), nil
}

// RefreshToken always fails for API keys.
func (m *APIKeyManager) RefreshToken(ctx context.Context) error {
	return ErrAPIKeyCannotRefresh
}

// SetToken replaces the key.
func (m *APIKeyManager) SetToken(key string, expiresAt time.Time) {
	m.key = key
}

// StaticTokenManager carries a pre-obtained JWT as-is.
type StaticTokenManager struct {
	store tokenStore
}

// NewStaticTokenManager creates a manager around an existing JWT.
func NewStaticTokenManager(jwt string) *StaticTokenManager {
	manager := &StaticTokenManager{}
	manager.store.set(jwt, time.Time{})

	return manager
}

// GetToken returns the JWT header value.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	return "JWT " + m.store.get().value, nil
}

// RefreshToken always fails for static tokens.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return ErrStaticCannotRefresh
}

// SetToken replaces the JWT.
func (m *StaticTokenManager) SetToken(jwt string, expiresAt time.Time) {
	m.store.set(jwt, expiresAt)
}

// LoginConfig configures a LoginTokenManager.
type LoginConfig struct {
	// BaseURL is the Payload instance root, without the /api suffix.
	BaseURL string
	// Collection is the auth-enabled collection the account belongs to.
	Collection string
	// Email and Password are the account credentials.
	Email    string
	Password string
	// HTTPClient is optional; http.DefaultClient is used when nil.
	HTTPClient *http.Client
}

// LoginTokenManager obtains a JWT via the collection login operation and
// renews it through the refresh-token operation before it expires.
type LoginTokenManager struct {
	config *LoginConfig
	client *http.Client

	mu    sync.Mutex
	store tokenStore
}

// NewLoginTokenManager creates a login-based token manager.
func NewLoginTokenManager(config *LoginConfig) *LoginTokenManager {
	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &LoginTokenManager{config: config, client: client}
}

// GetToken returns a valid JWT header value, logging in or refreshing first
// when the stored token is missing or stale.
func (m *LoginTokenManager) GetToken(ctx context.Context) (string, error) {
	if current := m.store.get(); current.valid() {
		return "JWT " + current.value, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check under the lock; another caller may have logged in already.
	if current := m.store.get(); current.valid() {
		return "JWT " + current.value, nil
	}

	err := m.login(ctx)
	if err != nil {
		return "", err
	}

	return "JWT " + m.store.get().value, nil
}

// RefreshToken renews the JWT, falling back to a fresh login when the
// refresh operation is rejected.
func (m *LoginTokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.store.get()
	if current == nil || current.value == "" {
		return m.login(ctx)
	}

	err := m.refresh(ctx, current.value)
	if err != nil {
		return m.login(ctx)
	}

	return nil
}

// SetToken replaces the stored JWT.
func (m *LoginTokenManager) SetToken(jwt string, expiresAt time.Time) {
	m.store.set(jwt, expiresAt)
}

// FallbackTokenManager tries a primary credential first and falls back to a
// secondary one, e.g. an API key backed by login credentials.
type FallbackTokenManager struct {
	primary  TokenManager
	fallback TokenManager
}

// NewFallbackTokenManager creates a manager over a primary and a fallback
// credential.
func NewFallbackTokenManager(primary, fallback TokenManager) *FallbackTokenManager {
	return &FallbackTokenManager{primary: primary, fallback: fallback}
}

// GetToken returns the primary header value, or the fallback's when the
// primary fails.
func (m *FallbackTokenManager) GetToken(ctx context.Context) (string, error) {
	value, err := m.primary.GetToken(ctx)
	if err == nil {
		return value, nil
	}

	return m.fallback.GetToken(ctx)
}

// RefreshToken refreshes the primary, or the fallback when the primary
// cannot refresh.
func (m *FallbackTokenManager) RefreshToken(ctx context.Context) error {
	err := m.primary.RefreshToken(ctx)
	if err == nil {
		return nil
	}

	return m.fallback.RefreshToken(ctx)
}

// SetToken replaces the primary credential.
func (m *FallbackTokenManager) SetToken(token string, expiresAt time.Time) {
	m.primary.SetToken(token, expiresAt)
}

// tokenResponse covers both the login and refresh envelopes.
type tokenResponse struct {
	Token          string `json:"token"`
	RefreshedToken string `json:"refreshedToken"`
	Exp            int64  `json:"exp"`
}

func (m *LoginTokenManager) login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"email":    m.config.Email,
		"password": m.config.Password,
	})
	if err != nil {
		return fmt.Errorf("encoding login request: %w", err)
	}

	path := fmt.Sprintf("%s/api/%s/login", m.config.BaseURL, m.config.Collection)

	resp, err := m.post(ctx, path, body, "")
	if err != nil {
		return err
	}

	if resp.Token == "" {
		return ErrLoginFailed
	}

	m.store.set(resp.Token, time.Unix(resp.Exp, 0))

	return nil
}

func (m *LoginTokenManager) refresh(ctx context.Context, jwt string) error {
	path := fmt.Sprintf("%s/api/%s/refresh-token", m.config.BaseURL, m.config.Collection)

	resp, err := m.post(ctx, path, nil, "JWT "+jwt)
	if err != nil {
		return err
	}

	refreshed := resp.RefreshedToken
	if refreshed == "" {
		return ErrRefreshFailed
	}

	m.store.set(refreshed, time.Unix(resp.Exp, 0))

	return nil
}

func (m *LoginTokenManager) post(ctx context.Context, url string, body []byte, authorization string) (*tokenResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d", ErrLoginFailed, resp.StatusCode)
	}

	var parsed tokenResponse

	err = json.Unmarshal(data, &parsed)
	if err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	return &parsed, nil
}
