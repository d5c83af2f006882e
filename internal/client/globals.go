package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/payload-community/payload-go/pkg/payload"
)

// GlobalsClient implements payload.GlobalsClient.
type GlobalsClient struct {
	client *Client
}

// Get fetches a global document by its slug.
func (g *GlobalsClient) Get(ctx context.Context, slug string, query *payload.QueryBuilder) (json.RawMessage, error) {
	if slug == "" {
		return nil, payload.ErrGlobalSlugRequired
	}

	path := "/api/globals/" + url.PathEscape(slug)

	resp, err := g.client.httpClient.GetRaw(ctx, path, queryString(query))
	if err != nil {
		return nil, fmt.Errorf("getting global %s: %w", slug, err)
	}

	return json.RawMessage(resp.Body), nil
}

// Update replaces a global document.
func (g *GlobalsClient) Update(ctx context.Context, slug string, document interface{}) (*payload.DocumentResponse, error) {
	if slug == "" {
		return nil, payload.ErrGlobalSlugRequired
	}

	path := "/api/globals/" + url.PathEscape(slug)

	resp, err := g.client.httpClient.Post(ctx, path, document)
	if err != nil {
		return nil, fmt.Errorf("updating global %s: %w", slug, err)
	}

	return parseDocumentResponse(resp)
}
