package app

import (
	"context"

	"censusbq/internal/modkit"
	"censusbq/internal/platform/config"
	"censusbq/internal/platform/logger"
	"censusbq/internal/platform/store"

	historymod "censusbq/internal/services/history/module"
)

// runtime is the environment one command runs in: config, logger and the store holding
// the upload ledger
type runtime struct {
	cfg   config.Conf
	log   *logger.Logger
	store *store.Store
}

// openRuntime opens only the store backend CORE_HISTORY_BACKEND selects
func openRuntime(ctx context.Context, role string) (*runtime, error) {
	cfg := config.New()
	log := logger.Get()
	backend := historymod.FromConfig(cfg).Backend

	st, err := store.Open(ctx, store.LoadConfig(cfg, role, backend), store.WithLogger(*log))
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, log: log, store: st}, nil
}

func (rt *runtime) deps() modkit.Deps { return modkit.DepsFrom(*rt.log, rt.cfg, rt.store) }

// history builds the ledger module and creates its table
func (rt *runtime) history(ctx context.Context) (*historymod.Module, error) {
	m := historymod.New(rt.deps())
	if err := m.Init(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (rt *runtime) close(ctx context.Context) {
	if err := rt.store.Close(ctx); err != nil {
		rt.log.Error().Err(err).Msg("failed to close store")
	}
}
