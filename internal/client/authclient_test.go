package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/payload-community/payload-go/pkg/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthLogin(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Unix()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/login":
			writeJSON(t, w, http.StatusOK, map[string]any{
				"message": "Auth Passed",
				"user":    map[string]any{"id": "u1", "email": "admin@example.com"},
				"token":   "issued-jwt",
				"exp":     exp,
			})
		case "/api/posts":
			// Subsequent requests carry the issued token.
			assert.Equal(t, "JWT issued-jwt", r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, listBody())
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}, func(config *payload.Config) {
		config.APIKey = ""
		config.Token = "stale-jwt"
	})

	login, err := client.Auth().Login(context.Background(), "users", "admin@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "issued-jwt", login.Token)
	assert.Equal(t, exp, login.Exp)

	_, err = client.Collections().Find(context.Background(), "posts", nil)
	require.NoError(t, err)
}

func TestAuthLoginCustomCollection(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admins/login", r.URL.Path)

		writeJSON(t, w, http.StatusOK, map[string]any{"token": "jwt"})
	})

	_, err := client.Auth().Login(context.Background(), "admins", "a@example.com", "pw")
	require.NoError(t, err)
}

func TestAuthLoginFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{
			"errors": []map[string]any{{"message": "The email or password provided is incorrect."}},
		})
	})

	_, err := client.Auth().Login(context.Background(), "users", "wrong@example.com", "nope")
	require.Error(t, err)
	assert.True(t, payload.IsUnauthorized(err))
}

func TestAuthLogout(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/logout", r.URL.Path)

		writeJSON(t, w, http.StatusOK, map[string]any{"message": "You have been logged out successfully."})
	})

	resp, err := client.Auth().Logout(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "You have been logged out successfully.", resp.Message)
}

func TestAuthRefreshToken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/refresh-token":
			writeJSON(t, w, http.StatusOK, map[string]any{
				"message":        "Token refresh successful",
				"refreshedToken": "fresh-jwt",
				"exp":            time.Now().Add(time.Hour).Unix(),
			})
		case "/api/posts":
			assert.Equal(t, "JWT fresh-jwt", r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, listBody())
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}, func(config *payload.Config) {
		config.APIKey = ""
		config.Token = "old-jwt"
	})

	refreshed, err := client.Auth().RefreshToken(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "fresh-jwt", refreshed.Token)

	_, err = client.Collections().Find(context.Background(), "posts", nil)
	require.NoError(t, err)
}

func TestAuthMe(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/me", r.URL.Path)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"user":       map[string]any{"id": "u1", "email": "admin@example.com"},
			"collection": "users",
		})
	})

	me, err := client.Auth().Me(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "users", me.Collection)
	assert.JSONEq(t, `{"id":"u1","email":"admin@example.com"}`, string(me.User))
}

func TestAuthWithoutCredentials(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	}, func(config *payload.Config) {
		config.APIKey = ""
	})

	_, err := client.Auth().Me(context.Background(), "")
	assert.ErrorIs(t, err, payload.ErrNotAuthenticated)

	_, err = client.Auth().Logout(context.Background(), "")
	assert.ErrorIs(t, err, payload.ErrNotAuthenticated)
}
