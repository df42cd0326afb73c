// Package service implements the upload ledger over a domain.Repo
package service

import (
	"context"
	"math"
	"os"
	"time"

	"censusbq/internal/adapters/snapshot"
	perr "censusbq/internal/platform/errors"
	"censusbq/internal/platform/logger"
	dom "censusbq/internal/services/history/domain"

	"github.com/google/uuid"
)

const defaultLimit = 50

// Config for the ledger service
type Config struct {
	// HardLimit caps List page sizes
	HardLimit int
	// Now is the clock; defaults to time.Now
	Now func() time.Time
}

// Service implements domain.LedgerPort and domain.QueryPort
type Service struct {
	Repo dom.Repo
	Cfg  Config
}

// New constructs the ledger service with a required repo
func New(repo dom.Repo, cfg Config) *Service {
	if repo == nil {
		panic("history: nil repo")
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 500
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{Repo: repo, Cfg: cfg}
}

// EnsureSchema creates the ledger table when missing
func (s *Service) EnsureSchema(ctx context.Context) error { return s.Repo.EnsureSchema(ctx) }

// Begin records a STARTED entry for u and returns it
func (s *Service) Begin(ctx context.Context, u dom.Upload) (dom.Entry, error) {
	if u.FileName == "" {
		return dom.Entry{}, perr.WithField(perr.InvalidArgf("history: file name required"), "file_name")
	}
	if u.Type == "" {
		u.Type = dom.UploadCensus
	}
	now := s.Cfg.Now().UTC()
	e := dom.Entry{
		ID:         uuid.New(),
		FileName:   u.FileName,
		UploadType: u.Type,
		Status:     dom.StatusStarted,
		FileDate:   s.fileDate(u, now),
		RecordedAt: now,
	}
	if u.Path != "" {
		if st, err := os.Stat(u.Path); err == nil {
			e.SizeBytes = st.Size()
			e.SizeMB = SizeMB(e.SizeBytes)
		}
	}
	if err := s.Repo.Record(ctx, e); err != nil {
		return dom.Entry{}, err
	}
	return e, nil
}

// Complete records COMPLETED for a started entry
func (s *Service) Complete(ctx context.Context, started dom.Entry) error {
	return s.Repo.Record(ctx, s.next(started, dom.StatusCompleted, ""))
}

// Fail records FAILED for a started entry with the cause's message
func (s *Service) Fail(ctx context.Context, started dom.Entry, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return s.Repo.Record(ctx, s.next(started, dom.StatusFailed, msg))
}

// Previous returns every status recorded for fileName, oldest first
func (s *Service) Previous(ctx context.Context, fileName string) ([]dom.Status, error) {
	return s.Repo.Statuses(ctx, fileName)
}

// List implements domain.QueryPort
func (s *Service) List(ctx context.Context, f dom.Filter) ([]dom.Entry, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, perr.WithField(perr.InvalidArgf("history: unknown status %q", f.Status), "status")
	}
	switch {
	case f.Limit <= 0:
		f.Limit = min(defaultLimit, s.Cfg.HardLimit)
	case f.Limit > s.Cfg.HardLimit:
		f.Limit = s.Cfg.HardLimit
	}
	out, err := s.Repo.List(ctx, f)
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("file", f.FileName).Msg("history list failed")
		return nil, err
	}
	return out, nil
}

func (s *Service) next(started dom.Entry, st dom.Status, msg string) dom.Entry {
	e := started
	e.ID = uuid.New()
	e.Status = st
	e.RecordedAt = s.Cfg.Now().UTC()
	e.Error = msg
	return e
}

// fileDate is the snapshot date for census uploads and the upload time otherwise
func (s *Service) fileDate(u dom.Upload, now time.Time) *time.Time {
	if u.FileDate != nil {
		t := u.FileDate.UTC()
		return &t
	}
	if u.Type == dom.UploadCensus {
		if d, err := time.Parse(snapshot.DateLayout, u.FileName); err == nil {
			return &d
		}
		if _, d, err := snapshot.ParseName(u.FileName); err == nil {
			return &d
		}
		return nil
	}
	return &now
}

// SizeMB converts bytes to decimal megabytes rounded to two places
func SizeMB(n int64) float64 {
	return math.Round(float64(n)/1e6*100) / 100
}

var (
	_ dom.LedgerPort = (*Service)(nil)
	_ dom.QueryPort  = (*Service)(nil)
)
