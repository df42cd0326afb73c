package app

import (
	"censusbq/internal/services/convert"

	"github.com/spf13/cobra"
)

func newUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage <source_file> <destination_file>",
		Short: "Reshape one usage file",
		Long: `Reads newline-delimited usage records (gzip when the name ends in .gz), turns each
jobs map into a list of {type, count} and normalizes timestamps to RFC3339 UTC.`,
		Args: atLeast(2, "Usage: SOURCE_FILE DESTINATION_FILE"),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := convert.Usage(cmd.Context(), args[0], args[1])
			return err
		},
	}
}

func newExtensionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extensions <source_file> <destination_file>",
		Short: "Flatten the artifacts of an extensions document",
		Long: `Writes each value of the top-level "artifacts" object as one line, with every
hyphen turned into an underscore. The destination is created even when empty.`,
		Args: atLeast(2, "Usage: SOURCE_FILE DESTINATION_FILE"),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := convert.Extensions(cmd.Context(), args[0], args[1])
			return err
		},
	}
}
