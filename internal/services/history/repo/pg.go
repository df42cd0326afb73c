package repo

import (
	"context"
	"fmt"
	"time"

	"censusbq/internal/modkit/repokit"
	"censusbq/internal/platform/store"
	"censusbq/internal/services/history/domain"
)

type (
	pg       struct{ q repokit.Queryer }
	pgBinder struct{}
)

// NewPG constructs a repo binder for Postgres
func NewPG() repokit.Binder[domain.Repo] { return pgBinder{} }

// Bind implements repokit.Binder
func (pgBinder) Bind(q repokit.Queryer) domain.Repo { return &pg{q: q} }

var pgSchema = []string{
	`CREATE TABLE IF NOT EXISTS ` + Table + ` (
		id          uuid PRIMARY KEY,
		file_name   text NOT NULL,
		upload_type text NOT NULL,
		status      text NOT NULL,
		size_bytes  bigint NOT NULL DEFAULT 0,
		size_mb     double precision NOT NULL DEFAULT 0,
		file_date   timestamptz,
		recorded_at timestamptz NOT NULL,
		error       text NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS ` + Table + `_file_idx ON ` + Table + ` (file_name, recorded_at)`,
}

// EnsureSchema implements domain.Repo
func (s *pg) EnsureSchema(ctx context.Context) error {
	for _, stmt := range pgSchema {
		if _, err := s.q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("history: pg schema: %w", err)
		}
	}
	return nil
}

// Record implements domain.Repo
func (s *pg) Record(ctx context.Context, e domain.Entry) error {
	return store.ExecOne(ctx, s.q, `
		INSERT INTO `+Table+`
			(id, file_name, upload_type, status, size_bytes, size_mb, file_date, recorded_at, error)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID.String(), e.FileName, string(e.UploadType), string(e.Status),
		e.SizeBytes, e.SizeMB, e.FileDate, e.RecordedAt.UTC(), e.Error,
	)
}

// Statuses implements domain.Repo
func (s *pg) Statuses(ctx context.Context, fileName string) ([]domain.Status, error) {
	return store.Many(ctx, s.q, scanStatus,
		`SELECT status FROM `+Table+` WHERE file_name = $1 ORDER BY recorded_at`, fileName)
}

// List implements domain.Repo
func (s *pg) List(ctx context.Context, f domain.Filter) ([]domain.Entry, error) {
	w, args := where(f, dollar)
	sql := `SELECT id::text, file_name, upload_type, status, size_bytes, size_mb, file_date, recorded_at, error
		FROM ` + Table + w + fmt.Sprintf(` ORDER BY recorded_at DESC LIMIT %d`, limitOf(f))
	return store.Many(ctx, s.q, scanTimes, sql, args...)
}

// scanTimes scans a row whose date columns come back as time values (pg, clickhouse)
func scanTimes(r store.Row) (domain.Entry, error) {
	var (
		e        domain.Entry
		id, typ  string
		status   string
		fileDate *time.Time
	)
	if err := r.Scan(&id, &e.FileName, &typ, &status, &e.SizeBytes, &e.SizeMB, &fileDate, &e.RecordedAt, &e.Error); err != nil {
		return e, err
	}
	parsed, err := parseID(id)
	if err != nil {
		return e, err
	}
	e.ID = parsed
	e.UploadType = domain.UploadType(typ)
	e.Status = domain.Status(status)
	e.RecordedAt = e.RecordedAt.UTC()
	if fileDate != nil {
		t := fileDate.UTC()
		e.FileDate = &t
	}
	return e, nil
}
