package commands

import (
	"fmt"

	"github.com/payload-community/payload-go/pkg/payload"
	"github.com/spf13/cobra"
)

// NewQueryCommand creates the query command, which renders the bracket
// notation for a set of flags without contacting a server. Useful for
// debugging filters before running them.
func NewQueryCommand() *cobra.Command {
	opts := &queryOptions{depth: -1}

	var withoutPrefix bool

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Render a query string from filter flags",
		Long: `Render the bracket-notation query string a set of flags produces.

For example:

  payload query --where author:equals:Alice --sort -createdAt --limit 10

prints:

  ?limit=10&sort=-createdAt&where[author][equals]=Alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := buildQuery(opts)
			if err != nil {
				return err
			}

			encoderOpts := []payload.EncoderOption{}
			if withoutPrefix {
				encoderOpts = append(encoderOpts, payload.WithoutQueryPrefix())
			}

			encoder := payload.NewEncoder(encoderOpts...)
			fmt.Println(encoder.Stringify(query.Build()))

			return nil
		},
	}

	addQueryFlags(cmd, opts)
	cmd.Flags().BoolVar(&withoutPrefix, "no-prefix", false, "omit the leading ?")

	return cmd
}
