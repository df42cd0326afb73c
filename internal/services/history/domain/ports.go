package domain

import "context"

// Repo is the storage port each backend implements
type Repo interface {
	EnsureSchema(ctx context.Context) error
	Record(ctx context.Context, e Entry) error
	Statuses(ctx context.Context, fileName string) ([]Status, error)
	List(ctx context.Context, f Filter) ([]Entry, error)
}

// LedgerPort is what the upload driver uses around each load
type LedgerPort interface {
	Begin(ctx context.Context, u Upload) (Entry, error)
	Complete(ctx context.Context, started Entry) error
	Fail(ctx context.Context, started Entry, cause error) error
	Previous(ctx context.Context, fileName string) ([]Status, error)
}

// QueryPort reads the ledger
type QueryPort interface {
	List(ctx context.Context, f Filter) ([]Entry, error)
}
