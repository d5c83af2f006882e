package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/payload-community/payload-go/internal/constants"
	"github.com/payload-community/payload-go/pkg/payload"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewFindCommand creates the find command.
func NewFindCommand() *cobra.Command {
	opts := &queryOptions{depth: -1}

	cmd := &cobra.Command{
		Use:   "find <collection>",
		Short: "List documents in a collection",
		Long: `List documents in a collection, with optional filters.

Filters use field:operator:value syntax, for example:

  payload find posts --where status:equals:published --sort -createdAt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			query, err := buildQuery(opts)
			if err != nil {
				return err
			}

			list, err := client.Collections().Find(cmd.Context(), args[0], query)
			if err != nil {
				return err
			}

			return outputDocumentList(list)
		},
	}

	addQueryFlags(cmd, opts)

	return cmd
}

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	opts := &queryOptions{depth: -1}

	cmd := &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Fetch one document by ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			query, err := buildQuery(opts)
			if err != nil {
				return err
			}

			doc, err := client.Collections().FindByID(cmd.Context(), args[0], args[1], query)
			if err != nil {
				return err
			}

			return outputDocument(doc)
		},
	}

	addQueryFlags(cmd, opts)

	return cmd
}

// NewCountCommand creates the count command.
func NewCountCommand() *cobra.Command {
	opts := &queryOptions{depth: -1}

	cmd := &cobra.Command{
		Use:   "count <collection>",
		Short: "Count documents in a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			query, err := buildQuery(opts)
			if err != nil {
				return err
			}

			count, err := client.Collections().Count(cmd.Context(), args[0], query)
			if err != nil {
				return err
			}

			fmt.Println(count)

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&opts.where, "where", nil, "filter as field:operator:value (repeatable)")

	return cmd
}

// NewGlobalCommand creates the global command.
func NewGlobalCommand() *cobra.Command {
	opts := &queryOptions{depth: -1}

	cmd := &cobra.Command{
		Use:   "global <slug>",
		Short: "Fetch a global document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			query, err := buildQuery(opts)
			if err != nil {
				return err
			}

			doc, err := client.Globals().Get(cmd.Context(), args[0], query)
			if err != nil {
				return err
			}

			return outputDocument(doc)
		},
	}

	cmd.Flags().IntVar(&opts.depth, "depth", -1, "relationship population depth")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "locale for localized fields")

	return cmd
}

func addQueryFlags(cmd *cobra.Command, opts *queryOptions) {
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "documents per page")
	cmd.Flags().IntVar(&opts.page, "page", 0, "page number")
	cmd.Flags().IntVar(&opts.depth, "depth", -1, "relationship population depth")
	cmd.Flags().StringArrayVar(&opts.sort, "sort", nil, "sort field, prefix with - for descending (repeatable)")
	cmd.Flags().StringArrayVar(&opts.selects, "select", nil, "field to include in results (repeatable)")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "locale for localized fields")
	cmd.Flags().StringArrayVar(&opts.where, "where", nil, "filter as field:operator:value (repeatable)")
}

func outputDocumentList(list *payload.DocumentList) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(list)
	case OutputFormatYAML:
		return StandardYAMLRenderer(list)
	default:
		return renderDocumentTable(list)
	}
}

func outputDocument(doc json.RawMessage) error {
	if viper.GetString("output") == OutputFormatYAML {
		var decoded any
		if err := json.Unmarshal(doc, &decoded); err != nil {
			return fmt.Errorf("decoding document: %w", err)
		}

		return StandardYAMLRenderer(decoded)
	}

	var pretty any
	if err := json.Unmarshal(doc, &pretty); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}

	return StandardJSONRenderer(pretty)
}

func renderDocumentTable(list *payload.DocumentList) error {
	if len(list.Docs) == 0 {
		_, _ = os.Stdout.WriteString("No documents found\n")

		return nil
	}

	// Columns are the union of top-level fields, with id first.
	columns := documentColumns(list.Docs)

	table := tablewriter.NewWriter(os.Stdout)

	header := make([]any, len(columns))
	for i, column := range columns {
		header[i] = column
	}

	table.Header(header...)

	for _, raw := range list.Docs {
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}

		row := make([]any, len(columns))
		for i, column := range columns {
			row[i] = cellValue(doc[column])
		}

		_ = table.Append(row...)
	}

	_ = table.Render()

	fmt.Printf("\nPage %d of %d (%d documents)\n", list.Page, list.TotalPages, list.TotalDocs)

	return nil
}

func documentColumns(docs []json.RawMessage) []string {
	seen := make(map[string]bool)

	for _, raw := range docs {
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}

		for key := range doc {
			seen[key] = true
		}
	}

	columns := make([]string, 0, len(seen))

	for key := range seen {
		if key != "id" {
			columns = append(columns, key)
		}
	}

	sort.Strings(columns)

	if seen["id"] {
		columns = append([]string{"id"}, columns...)
	}

	return columns
}

func cellValue(value any) string {
	switch v := value.(type) {
	case nil:
		return constants.NotAvailable
	case string:
		return truncate(v, constants.StringTruncationLength)
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return constants.NotAvailable
		}

		return truncate(string(data), constants.StringTruncationLength)
	default:
		return truncate(fmt.Sprintf("%v", v), constants.StringTruncationLength)
	}
}
