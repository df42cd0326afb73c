package repo

import (
	"context"
	"fmt"

	"censusbq/internal/platform/store"
	"censusbq/internal/services/history/domain"
)

// CH is the clickhouse ledger; rows are append-only so every status is its own row
type CH struct {
	c store.Clickhouse
}

// NewCH constructs the clickhouse ledger over the store seam
func NewCH(c store.Clickhouse) *CH {
	if c == nil {
		panic("history: nil clickhouse")
	}
	return &CH{c: c}
}

const chSchema = `CREATE TABLE IF NOT EXISTS ` + Table + ` (
	id          String,
	file_name   String,
	upload_type LowCardinality(String),
	status      LowCardinality(String),
	size_bytes  Int64,
	size_mb     Float64,
	file_date   Nullable(DateTime64(3, 'UTC')),
	recorded_at DateTime64(3, 'UTC'),
	error       String
) ENGINE = MergeTree
ORDER BY (file_name, recorded_at)`

// EnsureSchema implements domain.Repo
func (s *CH) EnsureSchema(ctx context.Context) error {
	if err := s.c.Exec(ctx, chSchema); err != nil {
		return fmt.Errorf("history: ch schema: %w", err)
	}
	return nil
}

// Record implements domain.Repo
func (s *CH) Record(ctx context.Context, e domain.Entry) error {
	return s.c.Insert(ctx, Table, [][]any{{
		e.ID.String(), e.FileName, string(e.UploadType), string(e.Status),
		e.SizeBytes, e.SizeMB, e.FileDate, e.RecordedAt.UTC(), e.Error,
	}})
}

// Statuses implements domain.Repo
func (s *CH) Statuses(ctx context.Context, fileName string) ([]domain.Status, error) {
	return store.ManyCH(ctx, s.c, scanStatus,
		`SELECT status FROM `+Table+` WHERE file_name = ? ORDER BY recorded_at`, fileName)
}

// List implements domain.Repo
func (s *CH) List(ctx context.Context, f domain.Filter) ([]domain.Entry, error) {
	w, args := where(f, question)
	sql := `SELECT id, file_name, upload_type, status, size_bytes, size_mb, file_date, recorded_at, error
		FROM ` + Table + w + fmt.Sprintf(` ORDER BY recorded_at DESC LIMIT %d`, limitOf(f))
	return store.ManyCH(ctx, s.c, scanTimes, sql, args...)
}
