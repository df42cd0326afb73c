package module

import (
	"censusbq/internal/platform/config"
	"censusbq/internal/platform/store"
)

// Options holds configuration settings for the history module
type Options struct {
	// Backend is one of none, sqlite, pg, ch
	Backend   string
	HardLimit int
}

// FromConfig reads CORE_HISTORY_*
func FromConfig(cfg config.Conf) Options {
	hc := cfg.Prefix("CORE_HISTORY_")
	return Options{
		Backend: hc.MayEnum("BACKEND", store.BackendSQLite,
			store.BackendNone, store.BackendSQLite, store.BackendPG, store.BackendCH),
		HardLimit: hc.MayInt("HARD_LIMIT", 500),
	}
}
