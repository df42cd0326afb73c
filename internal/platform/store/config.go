package store

import (
	"time"

	"censusbq/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG   PGConfig
	CH   CHConfig
	Lite SQLiteConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // ping attempts before giving up
	PingTimeout    time.Duration // per attempt
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}

// SQLiteConfig configures the local sqlite file
type SQLiteConfig struct {
	Enabled     bool
	Path        string
	BusyTimeout time.Duration
}

// Backends that a single process may select for its ledger
const (
	BackendNone   = "none"
	BackendSQLite = "sqlite"
	BackendPG     = "pg"
	BackendCH     = "ch"
)

// LoadConfig reads SERVICE_PGSQL_*, SERVICE_CLICKHOUSE_* and SERVICE_SQLITE_* and enables
// only the backends listed in enable
func LoadConfig(root config.Conf, role string, enable ...string) Config {
	on := map[string]bool{}
	for _, e := range enable {
		on[e] = true
	}
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	lite := root.Prefix("SERVICE_SQLITE_")

	cfg := Config{
		AppName: "censusbq-" + role,
		PG: PGConfig{
			Enabled:        on[BackendPG],
			MaxConns:       int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs:    pg.MayInt("SLOW_MS", 500),
			LogSQL:         pg.MayBool("LOG_SQL", false),
			ConnectRetries: pg.MayInt("CONNECT_RETRIES", 6),
			PingTimeout:    pg.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			Enabled:    on[BackendCH],
			ClientName: "censusbq",
			ClientTag:  role,
		},
		Lite: SQLiteConfig{
			Enabled:     on[BackendSQLite],
			Path:        lite.MayString("PATH", "upload_history.db"),
			BusyTimeout: lite.MayDuration("BUSY_TIMEOUT", 5*time.Second),
		},
	}
	if cfg.PG.Enabled {
		cfg.PG.URL = pg.MustString("DBURL")
	}
	if cfg.CH.Enabled {
		cfg.CH.URL = ch.MustString("DBURL")
	}
	return cfg
}
