package repo

import (
	"context"
	"fmt"

	"censusbq/internal/modkit/repokit"
	"censusbq/internal/platform/store"
	ptime "censusbq/internal/platform/time"
	"censusbq/internal/services/history/domain"
)

type (
	lite       struct{ q repokit.Queryer }
	liteBinder struct{}
)

// NewSQLite constructs a repo binder for the local sqlite ledger
func NewSQLite() repokit.Binder[domain.Repo] { return liteBinder{} }

// Bind implements repokit.Binder
func (liteBinder) Bind(q repokit.Queryer) domain.Repo { return &lite{q: q} }

var liteSchema = []string{
	`CREATE TABLE IF NOT EXISTS ` + Table + ` (
		id          TEXT PRIMARY KEY,
		file_name   TEXT NOT NULL,
		upload_type TEXT NOT NULL,
		status      TEXT NOT NULL,
		size_bytes  INTEGER NOT NULL DEFAULT 0,
		size_mb     REAL NOT NULL DEFAULT 0,
		file_date   INTEGER,
		recorded_at INTEGER NOT NULL,
		error       TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS ` + Table + `_file_idx ON ` + Table + ` (file_name, recorded_at)`,
}

// EnsureSchema implements domain.Repo
func (s *lite) EnsureSchema(ctx context.Context) error {
	for _, stmt := range liteSchema {
		if _, err := s.q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("history: sqlite schema: %w", err)
		}
	}
	return nil
}

// Record implements domain.Repo
func (s *lite) Record(ctx context.Context, e domain.Entry) error {
	return store.ExecOne(ctx, s.q, `
		INSERT INTO `+Table+`
			(id, file_name, upload_type, status, size_bytes, size_mb, file_date, recorded_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.FileName, string(e.UploadType), string(e.Status),
		e.SizeBytes, e.SizeMB, ptime.MillisPtr(e.FileDate), ptime.Millis(e.RecordedAt), e.Error,
	)
}

// Statuses implements domain.Repo
func (s *lite) Statuses(ctx context.Context, fileName string) ([]domain.Status, error) {
	return store.Many(ctx, s.q, scanStatus,
		`SELECT status FROM `+Table+` WHERE file_name = ? ORDER BY recorded_at, rowid`, fileName)
}

// List implements domain.Repo
func (s *lite) List(ctx context.Context, f domain.Filter) ([]domain.Entry, error) {
	w, args := where(f, question)
	sql := `SELECT id, file_name, upload_type, status, size_bytes, size_mb, file_date, recorded_at, error
		FROM ` + Table + w + fmt.Sprintf(` ORDER BY recorded_at DESC, rowid DESC LIMIT %d`, limitOf(f))
	return store.Many(ctx, s.q, scanLite, sql, args...)
}

func scanLite(r store.Row) (domain.Entry, error) {
	var (
		e        domain.Entry
		id, typ  string
		status   string
		fileDate *int64
		recorded int64
	)
	if err := r.Scan(&id, &e.FileName, &typ, &status, &e.SizeBytes, &e.SizeMB, &fileDate, &recorded, &e.Error); err != nil {
		return e, err
	}
	parsed, err := parseID(id)
	if err != nil {
		return e, err
	}
	e.ID = parsed
	e.UploadType = domain.UploadType(typ)
	e.Status = domain.Status(status)
	e.RecordedAt = ptime.FromMillis(recorded)
	if fileDate != nil {
		e.FileDate = ptime.Ptr(ptime.FromMillis(*fileDate))
	}
	return e, nil
}

func scanStatus(r store.Row) (domain.Status, error) {
	var s string
	err := r.Scan(&s)
	return domain.Status(s), err
}
