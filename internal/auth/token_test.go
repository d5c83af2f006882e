package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/payload-community/payload-go/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyManager(t *testing.T) {
	t.Parallel()

	manager := auth.NewAPIKeyManager("users", "secret-key")

	value, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "users API-Key secret-key", value)

	err = manager.RefreshToken(context.Background())
	assert.ErrorIs(t, err, auth.ErrAPIKeyCannotRefresh)
}

func TestStaticTokenManager(t *testing.T) {
	t.Parallel()

	manager := auth.NewStaticTokenManager("abc123")

	value, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "JWT abc123", value)

	err = manager.RefreshToken(context.Background())
	assert.ErrorIs(t, err, auth.ErrStaticCannotRefresh)

	manager.SetToken("def456", time.Time{})

	value, err = manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "JWT def456", value)
}

func TestFallbackTokenManager(t *testing.T) {
	t.Parallel()

	manager := auth.NewFallbackTokenManager(
		auth.NewAPIKeyManager("users", "primary-key"),
		auth.NewStaticTokenManager("backup-jwt"),
	)

	value, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "users API-Key primary-key", value)

	// Neither side can refresh here; the fallback's error surfaces.
	err = manager.RefreshToken(context.Background())
	assert.ErrorIs(t, err, auth.ErrStaticCannotRefresh)
}

func TestFallbackTokenManagerUsesFallbackOnError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	// The login manager fails against the rejecting server, so the static
	// fallback is used.
	manager := auth.NewFallbackTokenManager(
		auth.NewLoginTokenManager(&auth.LoginConfig{
			BaseURL:    server.URL,
			Collection: "users",
			Email:      "admin@example.com",
			Password:   "hunter2",
		}),
		auth.NewStaticTokenManager("backup-jwt"),
	)

	value, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "JWT backup-jwt", value)
}

func TestLoginTokenManagerLogsIn(t *testing.T) {
	t.Parallel()

	logins := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/users/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin@example.com", creds["email"])
		assert.Equal(t, "hunter2", creds["password"])

		logins++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "issued-jwt",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
	}))
	defer server.Close()

	manager := auth.NewLoginTokenManager(&auth.LoginConfig{
		BaseURL:    server.URL,
		Collection: "users",
		Email:      "admin@example.com",
		Password:   "hunter2",
	})

	value, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "JWT issued-jwt", value)

	// A valid cached token avoids a second login.
	value, err = manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "JWT issued-jwt", value)
	assert.Equal(t, 1, logins)
}

func TestLoginTokenManagerRefreshes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/users/login":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"token": "first-jwt",
				"exp":   time.Now().Add(time.Hour).Unix(),
			})
		case "/api/users/refresh-token":
			assert.Equal(t, "JWT first-jwt", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"refreshedToken": "second-jwt",
				"exp":            time.Now().Add(time.Hour).Unix(),
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	manager := auth.NewLoginTokenManager(&auth.LoginConfig{
		BaseURL:    server.URL,
		Collection: "users",
		Email:      "admin@example.com",
		Password:   "hunter2",
	})

	value, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "JWT first-jwt", value)

	require.NoError(t, manager.RefreshToken(context.Background()))

	value, err = manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "JWT second-jwt", value)
}

func TestLoginTokenManagerRefreshFallsBackToLogin(t *testing.T) {
	t.Parallel()

	logins := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/users/login":
			logins++
			_ = json.NewEncoder(w).Encode(map[string]any{
				"token": "fresh-jwt",
				"exp":   time.Now().Add(time.Hour).Unix(),
			})
		case "/api/users/refresh-token":
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	manager := auth.NewLoginTokenManager(&auth.LoginConfig{
		BaseURL:    server.URL,
		Collection: "users",
		Email:      "admin@example.com",
		Password:   "hunter2",
	})

	_, err := manager.GetToken(context.Background())
	require.NoError(t, err)

	require.NoError(t, manager.RefreshToken(context.Background()))
	assert.Equal(t, 2, logins)
}

func TestLoginTokenManagerLoginFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	manager := auth.NewLoginTokenManager(&auth.LoginConfig{
		BaseURL:    server.URL,
		Collection: "users",
		Email:      "wrong@example.com",
		Password:   "nope",
	})

	_, err := manager.GetToken(context.Background())
	assert.ErrorIs(t, err, auth.ErrLoginFailed)
}
