package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/payload-community/payload-go/pkg/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalsGet(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/globals/site-settings", r.URL.Path)
		assert.Equal(t, "en", r.URL.Query().Get("locale"))

		writeJSON(t, w, http.StatusOK, map[string]any{"siteName": "My Site"})
	})

	query := payload.NewQuery().Locale("en")

	doc, err := client.Globals().Get(context.Background(), "site-settings", query)
	require.NoError(t, err)
	assert.JSONEq(t, `{"siteName":"My Site"}`, string(doc))
}

func TestGlobalsGetRequiresSlug(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})

	_, err := client.Globals().Get(context.Background(), "", nil)
	assert.ErrorIs(t, err, payload.ErrGlobalSlugRequired)
}

func TestGlobalsUpdate(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/globals/site-settings", r.URL.Path)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"message": "Global updated.",
			"doc":     map[string]any{"siteName": "Renamed"},
		})
	})

	resp, err := client.Globals().Update(context.Background(), "site-settings", map[string]string{"siteName": "Renamed"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"siteName":"Renamed"}`, string(resp.Doc))
}
