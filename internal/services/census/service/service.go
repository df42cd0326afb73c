// Package service runs the census pipeline: order snapshots, transform the first N,
// hand each output to the loader
package service

import (
	"context"
	"path/filepath"
	"time"

	"censusbq/internal/adapters/snapshot"
	"censusbq/internal/core/reshape"
	perr "censusbq/internal/platform/errors"
	"censusbq/internal/platform/logger"
	dom "censusbq/internal/services/census/domain"
	historydom "censusbq/internal/services/history/domain"

	"github.com/google/uuid"
)

// DefaultLimit is how many snapshots one run processes
const DefaultLimit = 3

// Config for the census pipeline
type Config struct {
	Limit          int
	OutDir         string
	SpoolRaw       bool
	Policy         dom.FailurePolicy
	SkipUploaded   bool
	SchemaFile     string
	CredentialFile string
	UploadType     string
}

// Service implements domain.RunnerPort and domain.ListerPort
type Service struct {
	Loader  dom.Loader
	History dom.History
	Cfg     Config
}

// New constructs the pipeline; history may be nil
func New(loader dom.Loader, history dom.History, cfg Config) *Service {
	if loader == nil {
		panic("census: nil loader")
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if cfg.Policy == "" {
		cfg.Policy = dom.PolicyContinue
	}
	if cfg.UploadType == "" {
		cfg.UploadType = string(historydom.UploadCensus)
	}
	return &Service{Loader: loader, History: history, Cfg: cfg}
}

// Snapshots implements domain.ListerPort
func (s *Service) Snapshots(_ context.Context, dir string, descending bool, limit int) ([]dom.Snapshot, error) {
	files, err := snapshot.List(dir, descending)
	if err != nil {
		return nil, err
	}
	return snapshot.Take(files, limit), nil
}

// Run implements domain.RunnerPort. Transform errors abort the run and leave no output
// for the failing snapshot; load errors follow the configured FailurePolicy
func (s *Service) Run(ctx context.Context, dir string, descending bool) (dom.Summary, error) {
	if logger.RunID(ctx) == "" {
		ctx = logger.WithRun(ctx, uuid.NewString())
	}
	log := logger.C(ctx)
	sum := dom.Summary{Loaded: []string{}, Failed: []string{}, Skipped: []string{}, Outputs: []string{}}

	files, err := snapshot.List(dir, descending)
	if err != nil {
		return sum, err
	}
	sum.Listed = len(files)
	batch := snapshot.Take(files, s.Cfg.Limit)
	log.Info().
		Str("dir", dir).
		Bool("descending", descending).
		Int("listed", len(files)).
		Int("batch", len(batch)).
		Str("policy", string(s.Cfg.Policy)).
		Msg("census run starting")

	for _, f := range batch {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sctx := logger.WithSnapshot(ctx, f.Name)

		out, err := s.transform(sctx, f)
		if err != nil {
			logger.C(sctx).Error().Err(err).Str("file", f.FullName).Msg("transform failed, aborting run")
			return sum, err
		}
		sum.Processed++
		sum.Outputs = append(sum.Outputs, out)

		if err := s.load(sctx, f, out, &sum); err != nil {
			return sum, err
		}
	}

	log.Info().
		Int("processed", sum.Processed).
		Int("loaded", len(sum.Loaded)).
		Int("failed", len(sum.Failed)).
		Int("skipped", len(sum.Skipped)).
		Msg("census run done")
	return sum, nil
}

// transform writes the reshaped snapshot to OutDir/<date token> and returns that path
func (s *Service) transform(ctx context.Context, f dom.Snapshot) (string, error) {
	start := time.Now()
	outPath := filepath.Join(s.Cfg.OutDir, f.Name)

	sink, err := snapshot.Create(outPath)
	if err != nil {
		return "", err
	}
	defer sink.Abort()

	var rd *snapshot.Reader
	if s.Cfg.SpoolRaw {
		raw := outPath + snapshot.RawSuffix
		if _, err := snapshot.Spool(f, raw); err != nil {
			return "", err
		}
		rd, err = snapshot.OpenRaw(raw)
	} else {
		rd, err = snapshot.Open(f)
	}
	if err != nil {
		return "", err
	}
	defer rd.Close()

	n, err := reshape.UsageLines(rd, sink)
	if err != nil {
		return "", perr.WithOp(err, f.FullName)
	}
	if err := sink.Commit(); err != nil {
		return "", err
	}

	lines, bytes := rd.Stats()
	logger.C(ctx).Info().
		Str("snapshot", f.FullName).
		Time("date", f.Date).
		Int("lines", lines).
		Int("records", n).
		Int64("bytes", bytes).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Str("output", outPath).
		Msg("snapshot transformed")
	return outPath, nil
}

// load hands out to the loader, consulting and writing the ledger when one is wired.
// It only returns an error when the run must stop
func (s *Service) load(ctx context.Context, f dom.Snapshot, out string, sum *dom.Summary) error {
	log := logger.C(ctx)

	var (
		entry   historydom.Entry
		tracked bool
	)
	if s.History != nil {
		prev, err := s.History.Previous(ctx, f.Name)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("upload history unavailable")
		case len(prev) > 0 && s.Cfg.SkipUploaded:
			log.Error().Str("file", f.Name).Int("attempts", len(prev)).Msg("previous attempt to upload file, skipping")
			sum.Skipped = append(sum.Skipped, f.Name)
			return nil
		}
		date := f.Date
		entry, err = s.History.Begin(ctx, historydom.Upload{
			FileName: f.Name,
			Path:     out,
			Type:     historydom.UploadType(s.Cfg.UploadType),
			FileDate: &date,
		})
		if err != nil {
			log.Warn().Err(err).Msg("could not record upload start")
		} else {
			tracked = true
		}
	}

	start := time.Now()
	err := s.Loader.Load(ctx, dom.LoadRequest{
		File:        out,
		Schema:      s.Cfg.SchemaFile,
		Credentials: s.Cfg.CredentialFile,
		UploadType:  s.Cfg.UploadType,
	})
	if err != nil {
		log.Error().Err(err).Str("output", out).Int64("elapsed_ms", time.Since(start).Milliseconds()).Msg("load failed")
		if tracked {
			if herr := s.History.Fail(ctx, entry, err); herr != nil {
				log.Warn().Err(herr).Msg("could not record upload failure")
			}
		}
		sum.Failed = append(sum.Failed, f.Name)
		if s.Cfg.Policy == dom.PolicyAbort {
			return err
		}
		return nil
	}

	if tracked {
		if herr := s.History.Complete(ctx, entry); herr != nil {
			log.Warn().Err(herr).Msg("could not record upload completion")
		}
	}
	sum.Loaded = append(sum.Loaded, f.Name)
	log.Info().Str("output", out).Int64("elapsed_ms", time.Since(start).Milliseconds()).Msg("snapshot loaded")
	return nil
}

var (
	_ dom.RunnerPort = (*Service)(nil)
	_ dom.ListerPort = (*Service)(nil)
)
