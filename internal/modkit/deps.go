// Package modkit provides module wiring and core deps
package modkit

import (
	"censusbq/internal/modkit/repokit"
	"censusbq/internal/platform/config"
	"censusbq/internal/platform/logger"
	"censusbq/internal/platform/store"
)

// Deps holds core dependencies passed to modules
type Deps struct {
	Log  logger.Logger
	Cfg  config.Conf
	PG   repokit.TxRunner
	CH   store.Clickhouse
	Lite repokit.TxRunner
}

// DepsFrom copies the opened backends of st into a Deps; st may be nil
func DepsFrom(log logger.Logger, cfg config.Conf, st *store.Store) Deps {
	d := Deps{Log: log, Cfg: cfg}
	if st != nil {
		d.PG, d.CH, d.Lite = st.PG, st.CH, st.Lite
	}
	return d
}
