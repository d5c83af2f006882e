package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			switch viper.GetString("output") {
			case OutputFormatJSON:
				_ = StandardJSONRenderer(map[string]string{
					"version": version,
					"commit":  commit,
					"date":    date,
				})
			case OutputFormatYAML:
				_ = StandardYAMLRenderer(map[string]string{
					"version": version,
					"commit":  commit,
					"date":    date,
				})
			default:
				fmt.Printf("payload version %s (commit: %s, built: %s)\n", version, commit, date)
			}
		},
	}
}
