// Package app holds the censusbq command tree
package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// UsageError is returned when positional arguments are missing; the caller prints Msg
// and exits 1
type UsageError struct{ Msg string }

func (e *UsageError) Error() string { return e.Msg }

// NewRootCmd builds the full command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "censusbq",
		Short: "Prepare Jenkins usage data and load it into BigQuery",
		Long: `censusbq reshapes Jenkins census snapshots, usage files and extension documents
into newline-delimited JSON the warehouse schema accepts, hands each output to the
BigQuery loader and keeps a ledger of upload attempts.

Examples:
  # Transform and load the three newest snapshots
  censusbq census /srv/census

  # Oldest first
  censusbq census /srv/census false

  # Single files
  censusbq usage usage.json usage.out
  censusbq extensions extensions.json extensions.out

  # Ledger and ops API
  censusbq history --status FAILED
  censusbq api`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SuggestionsMinimumDistance = 2

	root.AddCommand(
		newCensusCmd(),
		newUsageCmd(),
		newExtensionsCmd(),
		newHistoryCmd(),
		newAPICmd(),
	)
	return root
}

// Execute runs the command tree against os.Args
func Execute(ctx context.Context) error {
	root := NewRootCmd()
	root.SetArgs(os.Args[1:])
	return root.ExecuteContext(ctx)
}

// atLeast rejects fewer than n positional arguments with usage
func atLeast(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return &UsageError{Msg: usage}
		}
		return nil
	}
}

// setEnv surfaces a changed flag to the module that reads key through FromConfig
func setEnv(cmd *cobra.Command, flag, key string) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	_ = os.Setenv(key, cmd.Flags().Lookup(flag).Value.String())
}
