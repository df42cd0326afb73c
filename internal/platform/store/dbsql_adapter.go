package store

import (
	"context"
	"database/sql"
	"fmt"
)

// sqlQuerier is the statement surface shared by *sql.DB and *sql.Tx
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqlStatements adapts database/sql to RowQuerier
type sqlStatements struct{ q sqlQuerier }

func (s sqlStatements) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	n, _ := res.RowsAffected()
	return sqlTag{n: n}, nil
}

func (s sqlStatements) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rs, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{r: rs}, nil
}

func (s sqlStatements) QueryRow(ctx context.Context, query string, args ...any) Row {
	return s.q.QueryRowContext(ctx, query, args...)
}

// sqlAdapter wraps a *sql.DB as a TxRunner
type sqlAdapter struct {
	sqlStatements
	db *sql.DB
}

func newSQLAdapter(db *sql.DB) *sqlAdapter {
	return &sqlAdapter{sqlStatements: sqlStatements{q: db}, db: db}
}

// NewSQL exposes a *sql.DB through the TxRunner seam
func NewSQL(db *sql.DB) TxRunner { return newSQLAdapter(db) }

func (a *sqlAdapter) Ping(ctx context.Context) error { return a.db.PingContext(ctx) }

func (a *sqlAdapter) Close() error { return a.db.Close() }

func (a *sqlAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(sqlStatements{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type sqlRows struct{ r *sql.Rows }

func (x sqlRows) Next() bool            { return x.r.Next() }
func (x sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x sqlRows) Err() error            { return x.r.Err() }
func (x sqlRows) Close()                { _ = x.r.Close() }
func (x sqlRows) Columns() []string {
	cols, _ := x.r.Columns()
	return cols
}

type sqlTag struct{ n int64 }

func (t sqlTag) String() string      { return fmt.Sprintf("ROWS %d", t.n) }
func (t sqlTag) RowsAffected() int64 { return t.n }
