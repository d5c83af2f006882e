package payload

import (
	"context"
	"errors"
	"fmt"
)

// PaginationClient is the minimal listing surface the pagination helpers
// need. The collections client satisfies it for raw documents; tests can
// supply typed fakes.
type PaginationClient[T any] interface {
	ListPage(ctx context.Context, collection string, query *QueryBuilder, page int) (*ListResponse[T], error)
}

// PaginationOptions controls page fetching.
type PaginationOptions struct {
	// PerPage is the page size requested from the API. 0 keeps the server default.
	PerPage int
	// MaxPages caps how many pages are fetched. 0 means no cap.
	MaxPages int
}

// DefaultPaginationOptions returns sensible defaults for bulk fetching.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{PerPage: 100}
}

// PaginationIterator iterates documents across pages of a collection listing,
// fetching the next page lazily when the current one is exhausted.
type PaginationIterator[T any] struct {
	ctx        context.Context
	client     PaginationClient[T]
	collection string
	query      *QueryBuilder

	current  *ListResponse[T]
	position int
	nextPage int
	done     bool
}

// NewPaginationIterator creates an iterator over a collection listing. The
// query is used as-is for every page except its page number.
func NewPaginationIterator[T any](ctx context.Context, client PaginationClient[T], collection string, query *QueryBuilder) *PaginationIterator[T] {
	return &PaginationIterator[T]{
		ctx:        ctx,
		client:     client,
		collection: collection,
		query:      query,
		nextPage:   1,
	}
}

// HasNext reports whether another document is available without consuming it.
func (it *PaginationIterator[T]) HasNext() bool {
	if it.done {
		return false
	}

	if it.current != nil && it.position < len(it.current.Docs) {
		return true
	}

	// Current page exhausted; a next page may still exist.
	if it.current == nil {
		return true
	}

	return it.current.HasNextPage
}

// Next returns the next document, fetching the next page when needed.
func (it *PaginationIterator[T]) Next() (*T, error) {
	if it.current == nil || it.position >= len(it.current.Docs) {
		err := it.fetch()
		if err != nil {
			return nil, err
		}
	}

	if it.position >= len(it.current.Docs) {
		it.done = true

		return nil, ErrNoMoreItems
	}

	doc := &it.current.Docs[it.position]
	it.position++

	if it.position >= len(it.current.Docs) && !it.current.HasNextPage {
		it.done = true
	}

	return doc, nil
}

// All drains the iterator into a slice.
func (it *PaginationIterator[T]) All() ([]T, error) {
	var all []T

	for it.HasNext() {
		doc, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				break
			}

			return all, err
		}

		all = append(all, *doc)
	}

	return all, nil
}

func (it *PaginationIterator[T]) fetch() error {
	if it.current != nil && !it.current.HasNextPage {
		it.done = true

		return ErrNoMoreItems
	}

	page, err := it.client.ListPage(it.ctx, it.collection, it.query, it.nextPage)
	if err != nil {
		return fmt.Errorf("fetching page %d: %w", it.nextPage, err)
	}

	it.current = page
	it.position = 0
	it.nextPage++

	return nil
}

// FetchAllPages collects all documents of a collection listing, page by page,
// honoring the pagination options.
func FetchAllPages[T any](ctx context.Context, client PaginationClient[T], collection string, query *QueryBuilder, opts *PaginationOptions) ([]T, error) {
	if opts == nil {
		opts = DefaultPaginationOptions()
	}

	if query == nil {
		query = NewQuery()
	}

	if opts.PerPage > 0 {
		query.Limit(opts.PerPage)
	}

	var all []T

	for page := 1; ; page++ {
		if opts.MaxPages > 0 && page > opts.MaxPages {
			break
		}

		resp, err := client.ListPage(ctx, collection, query, page)
		if err != nil {
			return all, fmt.Errorf("fetching page %d: %w", page, err)
		}

		all = append(all, resp.Docs...)

		if !resp.HasNextPage {
			break
		}
	}

	return all, nil
}
