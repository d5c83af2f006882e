package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	internalhttp "github.com/payload-community/payload-go/internal/http"
	"github.com/payload-community/payload-go/pkg/payload"
)

// CollectionsClient implements payload.CollectionsClient.
type CollectionsClient struct {
	client *Client
}

// Find lists documents in a collection, applying the optional query.
func (c *CollectionsClient) Find(ctx context.Context, collection string, query *payload.QueryBuilder) (*payload.DocumentList, error) {
	if collection == "" {
		return nil, payload.ErrCollectionRequired
	}

	path := "/api/" + collection
	rawQuery := queryString(query)

	if c.client.cache != nil {
		key := payload.CacheKey(path, rawQuery)
		if entry, err := c.client.cache.Get(ctx, key); err == nil {
			var cached payload.DocumentList
			if err := json.Unmarshal(entry.Data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	resp, err := c.client.httpClient.GetRaw(ctx, path, rawQuery)
	if err != nil {
		return nil, fmt.Errorf("finding documents in %s: %w", collection, err)
	}

	var list payload.DocumentList

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing document list: %w", err)
	}

	if c.client.cache != nil {
		key := payload.CacheKey(path, rawQuery)
		entry := &payload.CacheEntry{
			Data:      resp.Body,
			ExpiresAt: time.Now().Add(payload.DefaultCacheOptions().DefaultTTL),
		}
		_ = c.client.cache.Set(ctx, key, entry)
	}

	return &list, nil
}

// ListPage fetches one page of a collection listing. The query is reused
// across calls with only its page number replaced, which is what the
// pagination helpers rely on.
func (c *CollectionsClient) ListPage(ctx context.Context, collection string, query *payload.QueryBuilder, page int) (*payload.DocumentList, error) {
	if query == nil {
		query = payload.NewQuery()
	}

	return c.Find(ctx, collection, query.Page(page))
}

// FindByID fetches one document by its ID.
func (c *CollectionsClient) FindByID(ctx context.Context, collection, id string, query *payload.QueryBuilder) (json.RawMessage, error) {
	if collection == "" {
		return nil, payload.ErrCollectionRequired
	}

	if id == "" {
		return nil, payload.ErrDocumentIDRequired
	}

	path := fmt.Sprintf("/api/%s/%s", collection, url.PathEscape(id))

	resp, err := c.client.httpClient.GetRaw(ctx, path, queryString(query))
	if err != nil {
		return nil, fmt.Errorf("finding document %s in %s: %w", id, collection, err)
	}

	return json.RawMessage(resp.Body), nil
}

// Count returns the number of documents matching the optional query's
// where filter.
func (c *CollectionsClient) Count(ctx context.Context, collection string, query *payload.QueryBuilder) (int, error) {
	if collection == "" {
		return 0, payload.ErrCollectionRequired
	}

	path := fmt.Sprintf("/api/%s/count", collection)

	resp, err := c.client.httpClient.GetRaw(ctx, path, queryString(query))
	if err != nil {
		return 0, fmt.Errorf("counting documents in %s: %w", collection, err)
	}

	var count payload.CountResponse

	err = json.Unmarshal(resp.Body, &count)
	if err != nil {
		return 0, fmt.Errorf("parsing count response: %w", err)
	}

	return count.TotalDocs, nil
}

// Create inserts a new document.
func (c *CollectionsClient) Create(ctx context.Context, collection string, document interface{}) (*payload.DocumentResponse, error) {
	if collection == "" {
		return nil, payload.ErrCollectionRequired
	}

	resp, err := c.client.httpClient.Post(ctx, "/api/"+collection, document)
	if err != nil {
		return nil, fmt.Errorf("creating document in %s: %w", collection, err)
	}

	return parseDocumentResponse(resp)
}

// Update patches one document by its ID.
func (c *CollectionsClient) Update(ctx context.Context, collection, id string, document interface{}) (*payload.DocumentResponse, error) {
	if collection == "" {
		return nil, payload.ErrCollectionRequired
	}

	if id == "" {
		return nil, payload.ErrDocumentIDRequired
	}

	path := fmt.Sprintf("/api/%s/%s", collection, url.PathEscape(id))

	resp, err := c.client.httpClient.Patch(ctx, path, document)
	if err != nil {
		return nil, fmt.Errorf("updating document %s in %s: %w", id, collection, err)
	}

	return parseDocumentResponse(resp)
}

// UpdateWhere patches every document matching the query's where filter.
func (c *CollectionsClient) UpdateWhere(ctx context.Context, collection string, query *payload.QueryBuilder, document interface{}) (*payload.BulkResponse, error) {
	if collection == "" {
		return nil, payload.ErrCollectionRequired
	}

	resp, err := c.client.httpClient.Do(ctx, &internalhttp.Request{
		Method:   http.MethodPatch,
		Path:     "/api/" + collection,
		RawQuery: queryString(query),
		Body:     document,
	})
	if err != nil {
		return nil, fmt.Errorf("updating documents in %s: %w", collection, err)
	}

	return parseBulkResponse(resp)
}

// Delete removes one document by its ID.
func (c *CollectionsClient) Delete(ctx context.Context, collection, id string) (*payload.DocumentResponse, error) {
	if collection == "" {
		return nil, payload.ErrCollectionRequired
	}

	if id == "" {
		return nil, payload.ErrDocumentIDRequired
	}

	path := fmt.Sprintf("/api/%s/%s", collection, url.PathEscape(id))

	resp, err := c.client.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting document %s in %s: %w", id, collection, err)
	}

	return parseDocumentResponse(resp)
}

// DeleteWhere removes every document matching the query's where filter.
func (c *CollectionsClient) DeleteWhere(ctx context.Context, collection string, query *payload.QueryBuilder) (*payload.BulkResponse, error) {
	if collection == "" {
		return nil, payload.ErrCollectionRequired
	}

	resp, err := c.client.httpClient.Do(ctx, &internalhttp.Request{
		Method:   http.MethodDelete,
		Path:     "/api/" + collection,
		RawQuery: queryString(query),
	})
	if err != nil {
		return nil, fmt.Errorf("deleting documents in %s: %w", collection, err)
	}

	return parseBulkResponse(resp)
}

func parseDocumentResponse(resp *internalhttp.Response) (*payload.DocumentResponse, error) {
	var parsed payload.DocumentResponse

	err := json.Unmarshal(resp.Body, &parsed)
	if err != nil {
		return nil, fmt.Errorf("parsing document response: %w", err)
	}

	// Some operations return the bare document rather than an envelope.
	if parsed.Doc == nil {
		parsed.Doc = json.RawMessage(resp.Body)
	}

	return &parsed, nil
}

func parseBulkResponse(resp *internalhttp.Response) (*payload.BulkResponse, error) {
	var parsed payload.BulkResponse

	err := json.Unmarshal(resp.Body, &parsed)
	if err != nil {
		return nil, fmt.Errorf("parsing bulk response: %w", err)
	}

	return &parsed, nil
}
