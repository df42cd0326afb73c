package app

import (
	"context"
	"encoding/json"
	"io"

	"censusbq/internal/adapters/loader"
	"censusbq/internal/modkit"
	"censusbq/internal/modkit/module"

	censusdom "censusbq/internal/services/census/domain"
	censusmod "censusbq/internal/services/census/module"
	historydom "censusbq/internal/services/history/domain"

	"github.com/spf13/cobra"
)

func newCensusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "census <directory> [order]",
		Short: "Transform the newest census snapshots and load them",
		Long: `Lists *.gz snapshots in directory, orders them by the YYYYMMDD token in their
names (newest first unless order is literally "false"), reshapes the first few into
files named after that token and hands each one to the loader.

A snapshot with a malformed record stops the run. Loader failures are recorded in the
ledger and, by default, the run moves on to the next snapshot.`,
		Example: `  censusbq census /srv/census
  censusbq census /srv/census false --limit 5 --on-load-failure abort`,
		Args: atLeast(1, "Usage: path_census_dir"),
		RunE: func(cmd *cobra.Command, args []string) error {
			setEnv(cmd, "limit", "CORE_CENSUS_LIMIT")
			setEnv(cmd, "out-dir", "CORE_CENSUS_OUT_DIR")
			setEnv(cmd, "spool", "CORE_CENSUS_SPOOL_RAW")
			setEnv(cmd, "on-load-failure", "CORE_CENSUS_ON_LOAD_FAILURE")
			setEnv(cmd, "skip-uploaded", "CORE_CENSUS_SKIP_UPLOADED")

			descending := len(args) < 2 || args[1] != "false"
			return runCensus(cmd.Context(), cmd.OutOrStdout(), args[0], descending)
		},
	}
	f := cmd.Flags()
	f.Int("limit", 3, "snapshots processed per run")
	f.String("out-dir", ".", "directory receiving the reshaped files")
	f.Bool("spool", false, "decompress each snapshot to <output>.raw before reshaping")
	f.String("on-load-failure", "continue", "continue or abort when the loader fails")
	f.Bool("skip-uploaded", true, "skip snapshots the ledger has seen before")
	return cmd
}

func runCensus(ctx context.Context, out io.Writer, dir string, descending bool) error {
	rt, err := openRuntime(ctx, "census")
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	hist, err := rt.history(ctx)
	if err != nil {
		return err
	}
	ledger, _ := module.PortsOf[historydom.LedgerPort](hist)

	m := censusmod.New(rt.deps(), loader.New(loader.FromConfig(rt.cfg)),
		modkit.WithPorts[censusdom.History](ledger))
	runner := module.MustPortsOf[censusdom.RunnerPort](m)

	sum, runErr := runner.Run(ctx, dir, descending)
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sum); err != nil {
		rt.log.Warn().Err(err).Msg("could not print run summary")
	}
	return runErr
}
