package store

import (
	"testing"
	"time"

	"censusbq/internal/platform/config"
	"censusbq/internal/platform/testkit"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVICE_SQLITE_PATH", "")
	t.Setenv("SERVICE_PGSQL_MAX_CONNS", "")

	cfg := LoadConfig(config.New(), "census", BackendSQLite)
	if !cfg.Lite.Enabled || cfg.PG.Enabled || cfg.CH.Enabled {
		t.Fatalf("enable flags wrong: %+v", cfg)
	}
	if cfg.Lite.Path != "upload_history.db" {
		t.Fatalf("lite path = %q", cfg.Lite.Path)
	}
	if cfg.Lite.BusyTimeout != 5*time.Second {
		t.Fatalf("busy timeout = %v", cfg.Lite.BusyTimeout)
	}
	if cfg.PG.MaxConns != 4 || cfg.AppName != "censusbq-census" {
		t.Fatalf("pg defaults wrong: %+v", cfg.PG)
	}
	if cfg.CH.ClientTag != "census" {
		t.Fatalf("ch tag = %q", cfg.CH.ClientTag)
	}
}

func TestLoadConfig_PGRequiresURL(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_DBURL", "")
	testkit.MustPanic(t, func() { LoadConfig(config.New(), "api", BackendPG) })
}

func TestLoadConfig_ReadsOverrides(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_DBURL", "postgres://u:p@h/db")
	t.Setenv("SERVICE_PGSQL_LOG_SQL", "true")
	t.Setenv("SERVICE_CLICKHOUSE_DBURL", "clickhouse://h:9000/db")
	t.Setenv("SERVICE_SQLITE_PATH", "/tmp/x.db")

	cfg := LoadConfig(config.New(), "api", BackendPG, BackendCH)
	if cfg.PG.URL != "postgres://u:p@h/db" || !cfg.PG.LogSQL {
		t.Fatalf("pg = %+v", cfg.PG)
	}
	if cfg.CH.URL != "clickhouse://h:9000/db" {
		t.Fatalf("ch = %+v", cfg.CH)
	}
	if cfg.Lite.Enabled {
		t.Fatalf("lite should be off")
	}
	if cfg.Lite.Path != "/tmp/x.db" {
		t.Fatalf("lite path = %q", cfg.Lite.Path)
	}
}
