package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/payload-community/payload-go/internal/constants"
	"github.com/payload-community/payload-go/pkg/payload"
	"github.com/payload-community/payload-go/pkg/payloadclient"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// whereFilterParts is the number of segments in a --where flag value.
const whereFilterParts = 3

// createClient builds a payload.Client from flags, environment, and the
// stored configuration.
func createClient(ctx context.Context) (payload.Client, error) {
	serverURL := viper.GetString("server")
	token := viper.GetString("token")
	apiKey := viper.GetString("api_key")
	authCollection := viper.GetString("auth_collection")

	config := loadConfig()
	if server := currentServer(config, false); server != nil {
		if serverURL == "" {
			serverURL = server.URL
		}

		if token == "" {
			token = server.Token
		}

		if apiKey == "" {
			apiKey = server.APIKey
		}

		if server.AuthCollection != "" && authCollection == "users" {
			authCollection = server.AuthCollection
		}
	}

	if serverURL == "" {
		return nil, constants.ErrNoServerConfigured
	}

	return payloadclient.New(ctx, &payload.Config{
		BaseURL:        serverURL,
		Token:          token,
		APIKey:         apiKey,
		AuthCollection: authCollection,
		Debug:          viper.GetBool("verbose"),
	})
}

// applyWhereFlags turns repeated --where field:operator:value flags into
// filters on the query. Values containing colons are preserved: only the
// first two separators split the flag.
func applyWhereFlags(query *payload.QueryBuilder, filters []string) error {
	for _, filter := range filters {
		parts := strings.SplitN(filter, ":", whereFilterParts)
		if len(parts) != whereFilterParts || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("%w: %q", constants.ErrInvalidWhereFilter, filter)
		}

		query.Where(parts[0], payload.Operator(parts[1]), parts[2])
	}

	return nil
}

// buildQuery assembles a query builder from the shared find/count flags.
func buildQuery(opts *queryOptions) (*payload.QueryBuilder, error) {
	query := payload.NewQuery()

	if opts.limit > 0 {
		query.Limit(opts.limit)
	}

	if opts.page > 0 {
		query.Page(opts.page)
	}

	if opts.depth >= 0 {
		query.Depth(opts.depth)
	}

	for _, field := range opts.sort {
		if strings.HasPrefix(field, "-") {
			query.SortByDescending(strings.TrimPrefix(field, "-"))
		} else {
			query.Sort(field)
		}
	}

	if len(opts.selects) > 0 {
		query.Select(opts.selects...)
	}

	if opts.locale != "" {
		query.Locale(opts.locale)
	}

	err := applyWhereFlags(query, opts.where)
	if err != nil {
		return nil, err
	}

	return query, nil
}

// queryOptions carries the shared query flags.
type queryOptions struct {
	limit   int
	page    int
	depth   int
	sort    []string
	selects []string
	locale  string
	where   []string
}

// StandardJSONRenderer writes data as indented JSON to stdout.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data as YAML to stdout.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(constants.JSONIndentSize)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// truncate shortens a value for table display.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit-3] + "..."
}
