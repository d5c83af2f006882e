package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/payload-community/payload-go/internal/auth"
	"github.com/payload-community/payload-go/pkg/payload"
)

// AuthClient implements payload.AuthClient. Operations target the given
// auth-enabled collection; an empty collection falls back to the configured
// default.
type AuthClient struct {
	client       *Client
	tokenManager auth.TokenManager
}

func (a *AuthClient) collectionOrDefault(collection string) string {
	if collection != "" {
		return collection
	}

	return a.client.authCollection()
}

// Login authenticates with email and password and stores the issued token
// for subsequent requests.
func (a *AuthClient) Login(ctx context.Context, collection, email, password string) (*payload.LoginResponse, error) {
	path := fmt.Sprintf("/api/%s/login", a.collectionOrDefault(collection))

	resp, err := a.client.httpClient.Post(ctx, path, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	var login payload.LoginResponse

	err = json.Unmarshal(resp.Body, &login)
	if err != nil {
		return nil, fmt.Errorf("parsing login response: %w", err)
	}

	if a.tokenManager != nil && login.Token != "" {
		a.tokenManager.SetToken(login.Token, time.Unix(login.Exp, 0))
	}

	return &login, nil
}

// Logout invalidates the current session.
func (a *AuthClient) Logout(ctx context.Context, collection string) (*payload.MessageResponse, error) {
	if a.tokenManager == nil {
		return nil, payload.ErrNotAuthenticated
	}

	path := fmt.Sprintf("/api/%s/logout", a.collectionOrDefault(collection))

	resp, err := a.client.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("logging out: %w", err)
	}

	var message payload.MessageResponse

	err = json.Unmarshal(resp.Body, &message)
	if err != nil {
		return nil, fmt.Errorf("parsing logout response: %w", err)
	}

	return &message, nil
}

// RefreshToken renews the current token and stores the replacement.
func (a *AuthClient) RefreshToken(ctx context.Context, collection string) (*payload.LoginResponse, error) {
	if a.tokenManager == nil {
		return nil, payload.ErrNotAuthenticated
	}

	path := fmt.Sprintf("/api/%s/refresh-token", a.collectionOrDefault(collection))

	resp, err := a.client.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}

	// The refresh envelope carries the new token under refreshedToken.
	var refreshed struct {
		Message        string          `json:"message"`
		User           json.RawMessage `json:"user"`
		RefreshedToken string          `json:"refreshedToken"`
		Exp            int64           `json:"exp"`
	}

	err = json.Unmarshal(resp.Body, &refreshed)
	if err != nil {
		return nil, fmt.Errorf("parsing refresh response: %w", err)
	}

	if refreshed.RefreshedToken != "" {
		a.tokenManager.SetToken(refreshed.RefreshedToken, time.Unix(refreshed.Exp, 0))
	}

	return &payload.LoginResponse{
		Message: refreshed.Message,
		User:    refreshed.User,
		Token:   refreshed.RefreshedToken,
		Exp:     refreshed.Exp,
	}, nil
}

// Me returns the account behind the current credentials.
func (a *AuthClient) Me(ctx context.Context, collection string) (*payload.MeResponse, error) {
	if a.tokenManager == nil {
		return nil, payload.ErrNotAuthenticated
	}

	path := fmt.Sprintf("/api/%s/me", a.collectionOrDefault(collection))

	resp, err := a.client.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching current user: %w", err)
	}

	var me payload.MeResponse

	err = json.Unmarshal(resp.Body, &me)
	if err != nil {
		return nil, fmt.Errorf("parsing me response: %w", err)
	}

	return &me, nil
}
