package payload

import "encoding/json"

// ListResponse represents Payload's paginated collection envelope.
type ListResponse[T any] struct {
	Docs          []T  `json:"docs"          yaml:"docs"`
	TotalDocs     int  `json:"totalDocs"     yaml:"totalDocs"`
	Limit         int  `json:"limit"         yaml:"limit"`
	TotalPages    int  `json:"totalPages"    yaml:"totalPages"`
	Page          int  `json:"page"          yaml:"page"`
	PagingCounter int  `json:"pagingCounter" yaml:"pagingCounter"`
	HasPrevPage   bool `json:"hasPrevPage"   yaml:"hasPrevPage"`
	HasNextPage   bool `json:"hasNextPage"   yaml:"hasNextPage"`
	PrevPage      *int `json:"prevPage"      yaml:"prevPage"`
	NextPage      *int `json:"nextPage"      yaml:"nextPage"`
}

// DocumentList is the raw-document list returned by the collections client.
type DocumentList = ListResponse[json.RawMessage]

// DocumentResponse represents the envelope returned by create and update
// operations on a single document.
type DocumentResponse struct {
	Message string          `json:"message" yaml:"message"`
	Doc     json.RawMessage `json:"doc"     yaml:"doc"`
}

// BulkResponse represents the envelope returned by where-driven bulk update
// and delete operations. Individual failures are reported per document
// alongside the documents that succeeded.
type BulkResponse struct {
	Docs   []json.RawMessage `json:"docs"   yaml:"docs"`
	Errors []BulkError       `json:"errors" yaml:"errors"`
}

// BulkError describes one failed document in a bulk operation.
type BulkError struct {
	ID      string `json:"id"      yaml:"id"`
	Message string `json:"message" yaml:"message"`
}

// CountResponse represents the /count endpoint envelope.
type CountResponse struct {
	TotalDocs int `json:"totalDocs" yaml:"totalDocs"`
}

// LoginResponse represents the envelope returned by a collection login.
type LoginResponse struct {
	Message string          `json:"message" yaml:"message"`
	User    json.RawMessage `json:"user"    yaml:"user"`
	Token   string          `json:"token"   yaml:"token"`
	Exp     int64           `json:"exp"     yaml:"exp"`
}

// MeResponse represents the envelope returned by /me.
type MeResponse struct {
	User       json.RawMessage `json:"user"       yaml:"user"`
	Token      string          `json:"token"      yaml:"token"`
	Exp        int64           `json:"exp"        yaml:"exp"`
	Collection string          `json:"collection" yaml:"collection"`
}

// AccessResponse represents the /api/access envelope describing what the
// current credentials may do. Per-collection and per-global permission
// objects are schema-dependent and kept raw.
type AccessResponse struct {
	CanAccessAdmin bool                       `json:"canAccessAdmin"        yaml:"canAccessAdmin"`
	Collections    map[string]json.RawMessage `json:"collections,omitempty" yaml:"collections,omitempty"`
	Globals        map[string]json.RawMessage `json:"globals,omitempty"     yaml:"globals,omitempty"`
}

// MessageResponse represents envelopes that carry only a message, such as
// logout confirmations.
type MessageResponse struct {
	Message string `json:"message" yaml:"message"`
}

// DecodeDocs unmarshals the raw documents of a list response into typed
// records, preserving the pagination envelope.
func DecodeDocs[T any](list *DocumentList) (*ListResponse[T], error) {
	if list == nil {
		return nil, nil
	}

	typed := &ListResponse[T]{
		TotalDocs:     list.TotalDocs,
		Limit:         list.Limit,
		TotalPages:    list.TotalPages,
		Page:          list.Page,
		PagingCounter: list.PagingCounter,
		HasPrevPage:   list.HasPrevPage,
		HasNextPage:   list.HasNextPage,
		PrevPage:      list.PrevPage,
		NextPage:      list.NextPage,
	}

	typed.Docs = make([]T, 0, len(list.Docs))

	for _, raw := range list.Docs {
		var doc T

		err := json.Unmarshal(raw, &doc)
		if err != nil {
			return nil, err
		}

		typed.Docs = append(typed.Docs, doc)
	}

	return typed, nil
}
