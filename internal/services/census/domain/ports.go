package domain

import (
	"context"

	historydom "censusbq/internal/services/history/domain"
)

// Loader puts one transformed file into the warehouse
type Loader interface {
	Load(ctx context.Context, req LoadRequest) error
}

// LoaderFunc adapts a function to Loader
type LoaderFunc func(ctx context.Context, req LoadRequest) error

// Load implements Loader
func (f LoaderFunc) Load(ctx context.Context, req LoadRequest) error { return f(ctx, req) }

// History is the upload ledger the driver consults and writes; optional
type History = historydom.LedgerPort

// RunnerPort runs the pipeline over a snapshot directory
type RunnerPort interface {
	Run(ctx context.Context, dir string, descending bool) (Summary, error)
}

// ListerPort lists the ordered snapshots of a directory
type ListerPort interface {
	Snapshots(ctx context.Context, dir string, descending bool, limit int) ([]Snapshot, error)
}
