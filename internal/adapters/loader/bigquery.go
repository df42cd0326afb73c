package loader

import (
	"context"

	"censusbq/internal/adapters/bigquery"
	"censusbq/internal/services/census/domain"
)

type uploader interface {
	CreateTable(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Close() error
}

var openUploader = func(ctx context.Context, cfg bigquery.Config) (uploader, error) {
	return bigquery.New(ctx, cfg)
}

// BigQuery uploads in process; Base carries everything but the per-file paths
type BigQuery struct {
	Base bigquery.Config
}

// NewBigQuery builds the in-process loader for t
func NewBigQuery(t Target, base bigquery.Config) *BigQuery {
	base.ProjectID, base.DatasetID, base.TableID = t.ProjectID, t.DatasetID, t.TableID
	base.CreateTable = t.CreateTable
	return &BigQuery{Base: base}
}

// Load implements domain.Loader
func (b *BigQuery) Load(ctx context.Context, req domain.LoadRequest) error {
	cfg := b.Base
	cfg.SchemaFile = req.Schema
	cfg.CredentialFile = req.Credentials
	if req.UploadType != "" {
		cfg.UploadType = req.UploadType
	}

	up, err := openUploader(ctx, cfg)
	if err != nil {
		return err
	}
	defer up.Close()

	if cfg.CreateTable {
		if err := up.CreateTable(ctx); err != nil {
			return err
		}
	}
	return up.Upload(ctx, req.File)
}

var _ domain.Loader = (*BigQuery)(nil)
