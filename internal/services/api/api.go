// Package api provides the read-only ops API: probes, the upload ledger and the snapshot listing
package api

import (
	"context"
	"time"

	"censusbq/internal/adapters/loader"
	"censusbq/internal/platform/config"
	"censusbq/internal/platform/logger"
	phttp "censusbq/internal/platform/net/http"
	"censusbq/internal/platform/net/middleware"
	"censusbq/internal/platform/store"

	"censusbq/internal/modkit"
	"censusbq/internal/modkit/httpkit"
	"censusbq/internal/modkit/module"

	metamod "censusbq/internal/services/api/meta/module"
	censusdom "censusbq/internal/services/census/domain"
	censusmod "censusbq/internal/services/census/module"
	historydom "censusbq/internal/services/history/domain"
	historymod "censusbq/internal/services/history/module"

	"github.com/go-chi/chi/v5"
)

// Options are the API options
type Options struct {
	// Config is the root config; CORE_API_* is read from it
	Config config.Conf
	// Store may be nil, in which case the ledger and readiness checks are skipped
	Store  *store.Store
	Logger *logger.Logger
	// Loader defaults to the one chosen by CORE_LOADER_*
	Loader censusdom.Loader
}

// Mount builds every module onto r and creates the ledger schema when a backend is wired
func Mount(ctx context.Context, r phttp.Router, opt Options) ([]module.Module, error) {
	if opt.Logger == nil {
		opt.Logger = logger.Get()
	}
	if opt.Loader == nil {
		opt.Loader = loader.New(loader.FromConfig(opt.Config))
	}
	deps := modkit.DepsFrom(*opt.Logger, opt.Config, opt.Store)

	hist := historymod.New(deps)
	if err := hist.Init(ctx); err != nil {
		return nil, err
	}
	ledger, _ := module.PortsOf[historydom.LedgerPort](hist)
	census := censusmod.New(deps, opt.Loader, modkit.WithPorts[censusdom.History](ledger))

	meta := metamod.New(deps)
	meta.MountRoutes(r)

	mods := []module.Module{meta, hist, census}
	httpkit.MountAPIV1(r, nil, func(v1 httpkit.Router) {
		hist.MountRoutes(v1)
		census.MountRoutes(v1)
	})
	for _, m := range mods {
		module.Register(m.Name(), m.Ports())
	}
	opt.Logger.Info().
		Str("history_backend", hist.Backend()).
		Bool("history_enabled", hist.Enabled()).
		Str("snapshot_dir", census.Options().Dir).
		Msg("api modules mounted")
	return mods, nil
}

// Stack reads CORE_API_TIMEOUT, CORE_API_SLOW and CORE_API_CORS_ORIGINS
func Stack(apiCfg config.Conf) func(*chi.Mux) {
	return func(m *chi.Mux) {
		m.Use(middleware.Stack(middleware.StackOptions{
			Timeout:   apiCfg.MayDuration("TIMEOUT", 30*time.Second),
			SlowLog:   apiCfg.MayDuration("SLOW", time.Second),
			CORS:      middleware.CORSOptions{AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil)},
			QuietPath: []string{"/health", "/ready"},
		})...)
	}
}

// Serve runs the API on CORE_API_ADDR until ctx is cancelled
func Serve(ctx context.Context, opt Options) error {
	apiCfg := opt.Config.Prefix("CORE_API_")
	srv := phttp.NewServer(apiCfg, Stack(apiCfg))
	if _, err := Mount(ctx, srv.Router(), opt); err != nil {
		return err
	}
	return srv.Run(ctx)
}
