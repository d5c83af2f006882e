package constants

import "errors"

// Configuration errors.
var (
	ErrNoServerConfigured = errors.New("no server configured, use 'payload config set url <url>' to set one")
	ErrNotLoggedIn        = errors.New("not logged in, use 'payload login' to authenticate")
	ErrNoStoredToken      = errors.New("no stored token for this server, please run 'payload login' again")
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("invalid output format, expected table, json, or yaml")
	ErrInvalidWhereFilter  = errors.New("invalid --where filter, expected field:operator:value")
	ErrCollectionRequired  = errors.New("a collection slug is required")
	ErrDocumentIDRequired  = errors.New("a document ID is required")
)
