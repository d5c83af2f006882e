// Package payload provides types, interfaces, and query-building helpers for
// working with the Payload CMS REST API.
//
// # Overview
//
// The payload package defines the query DSL (QueryBuilder, WhereBuilder,
// JoinBuilder), the bracket-notation query-string Encoder, the response
// envelopes (ListResponse, DocumentResponse), and the interfaces for the
// collections, globals, and auth clients. A concrete implementation is
// provided by the payloadclient package, which wires configuration,
// transport, and authentication. Most consumers should import payloadclient
// to construct a client and then interact with the interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/payload-community/payload-go/pkg/payload"
//	  "github.com/payload-community/payload-go/pkg/payloadclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := payloadclient.New(ctx, &payload.Config{BaseURL: "https://cms.example.com"})
//	  if err != nil { log.Fatal(err) }
//
//	  // First page of published posts
//	  posts, err := cli.Collections().Find(ctx, "posts",
//	    payload.NewQuery().Where("status", payload.OpEquals, "published").Limit(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = posts
//	}
//
// # Queries
//
// QueryBuilder collects filter, sort, select, pagination, locale, and join
// options through chained calls. Build produces a plain parameter object and
// Encoder.Stringify turns that object into the API's bracket-notation query
// string:
//
//	query := payload.NewQuery().
//	  Where("author", payload.OpEquals, "Alice").
//	  Or(func(g *payload.WhereBuilder) {
//	    g.Where("title", payload.OpContains, "Deckbuilding")
//	    g.Where("title", payload.OpContains, "Gloomhaven")
//	  }).
//	  SortByDescending("createdAt")
//
//	qs := payload.NewEncoder().Stringify(query.Build())
//	// ?sort=-createdAt&where[author][equals]=Alice&where[or][0][title][contains]=...
//
// # Errors
//
// API errors are represented by APIError and ResponseError. Helpers such as
// IsNotFound, IsUnauthorized, IsForbidden, and IsValidationError make it easy
// to branch on common cases.
//
// # Interceptors and caching
//
// The package includes request/response interceptors (logging, auth headers,
// metrics, rate limiting, circuit breaking) and a pluggable Cache abstraction
// with in-memory and NATS key-value backends. The payloadclient package
// composes these pieces for a sensible default client.
package payload
