package payload

import (
	"context"
	"encoding/json"
	"time"
)

// CollectionsClient provides access to collection documents.
type CollectionsClient interface {
	Find(ctx context.Context, collection string, query *QueryBuilder) (*DocumentList, error)
	// ListPage fetches one page of a listing; it is the surface the
	// pagination helpers iterate over.
	ListPage(ctx context.Context, collection string, query *QueryBuilder, page int) (*DocumentList, error)
	FindByID(ctx context.Context, collection, id string, query *QueryBuilder) (json.RawMessage, error)
	Count(ctx context.Context, collection string, query *QueryBuilder) (int, error)
	Create(ctx context.Context, collection string, doc any) (*DocumentResponse, error)
	Update(ctx context.Context, collection, id string, doc any) (*DocumentResponse, error)
	UpdateWhere(ctx context.Context, collection string, query *QueryBuilder, doc any) (*BulkResponse, error)
	Delete(ctx context.Context, collection, id string) (*DocumentResponse, error)
	DeleteWhere(ctx context.Context, collection string, query *QueryBuilder) (*BulkResponse, error)
}

// GlobalsClient provides access to global documents.
type GlobalsClient interface {
	Get(ctx context.Context, slug string, query *QueryBuilder) (json.RawMessage, error)
	Update(ctx context.Context, slug string, doc any) (*DocumentResponse, error)
}

// AuthClient provides access to auth-enabled collection operations.
type AuthClient interface {
	Login(ctx context.Context, collection, email, password string) (*LoginResponse, error)
	Logout(ctx context.Context, collection string) (*MessageResponse, error)
	RefreshToken(ctx context.Context, collection string) (*LoginResponse, error)
	Me(ctx context.Context, collection string) (*MeResponse, error)
}

// Client is the full Payload API surface.
type Client interface {
	Collections() CollectionsClient
	Globals() GlobalsClient
	Auth() AuthClient

	// Access returns what the current credentials are permitted to do.
	Access(ctx context.Context) (*AccessResponse, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a payload.Client.
//
// # Authentication precedence
//
// The concrete client applies the following precedence:
//  1. APIKey (with AuthCollection): sent as "<collection> API-Key <key>".
//  2. Token: used directly as a static JWT.
//  3. Email/Password (with AuthCollection): the client logs in against
//     /api/<collection>/login and refreshes the JWT before it expires.
//  4. No credentials: requests are sent without an Authorization header.
//
// Supplying an APIKey together with Email/Password keeps the key as the
// primary credential and falls back to a collection login if it fails.
type Config struct {
	// BaseURL is the root of the Payload instance, e.g. "https://cms.example.com".
	// A trailing slash is trimmed and "https://" is assumed when no scheme is
	// present. The "/api" prefix is added by the client, not the caller.
	BaseURL string

	// AuthCollection is the auth-enabled collection the credentials belong
	// to. Defaults to "users" when credentials are provided without it.
	AuthCollection string

	// APIKey authenticates with a collection API key.
	APIKey string

	// Token is a pre-obtained JWT used as-is.
	Token string

	// Email and Password authenticate via the collection login operation.
	Email    string
	Password string

	// HTTPTimeout is an optional default timeout; most calls should rely on
	// context deadlines instead.
	HTTPTimeout time.Duration

	// RetryMax is the maximum number of retries for transient failures
	// (>=500, 429, and connection errors). 0 selects the default.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration

	// Debug enables verbose HTTP request/response logging when a Logger is set.
	Debug bool
	// Logger is an optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Cache optionally enables GET response caching. Nil disables caching.
	Cache *CacheConfig

	// Interceptors is an optional chain run around every request: request
	// interceptors after the built-in headers and auth injection, response
	// interceptors after the status and body are read.
	Interceptors *InterceptorChain
}
