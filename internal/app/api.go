package app

import (
	"context"
	"os/signal"
	"syscall"

	"censusbq/internal/services/api"

	"github.com/spf13/cobra"
)

func newAPICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Serve the read-only ops API until interrupted",
		Long: `Serves /health, /ready, /version, /v1/uploads and /v1/snapshots on CORE_API_ADDR
(default :4000). The listed directory is CORE_CENSUS_DIR.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runAPI(ctx)
		},
	}
}

func runAPI(ctx context.Context) error {
	rt, err := openRuntime(ctx, "api")
	if err != nil {
		return err
	}
	defer rt.close(context.Background())

	return api.Serve(ctx, api.Options{Config: rt.cfg, Store: rt.store, Logger: rt.log})
}
