package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// fakeCH records calls and satisfies Clickhouse and Pinger
type fakeCH struct {
	pingErr  error
	closeErr error
	closed   bool
	inserted []any
}

func (f *fakeCH) Insert(_ context.Context, _ string, data any) error {
	f.inserted = append(f.inserted, data)
	return nil
}
func (f *fakeCH) Exec(context.Context, string, ...any) error { return nil }
func (f *fakeCH) Query(context.Context, string, ...any) (Rows, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeCH) Close() error               { f.closed = true; return f.closeErr }
func (f *fakeCH) Ping(context.Context) error { return f.pingErr }

// fakeTx satisfies TxRunner but not Pinger
type fakeTx struct{}

func (fakeTx) Tx(context.Context, func(q RowQuerier) error) error { return nil }
func (fakeTx) Exec(context.Context, string, ...any) (CommandTag, error) {
	return sqlTag{}, nil
}
func (fakeTx) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (fakeTx) QueryRow(context.Context, string, ...any) Row        { return nil }

func TestGuard_NilStore(t *testing.T) {
	t.Parallel()

	var s *Store
	if err := s.Guard(context.Background()); err == nil {
		t.Fatalf("nil store should return error")
	}
}

func TestGuard_NoSeams(t *testing.T) {
	t.Parallel()

	if err := (&Store{}).Guard(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestGuard_NonPingerIgnored(t *testing.T) {
	t.Parallel()

	s := &Store{PG: fakeTx{}, Lite: fakeTx{}}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestGuard_CHErrorNamed(t *testing.T) {
	t.Parallel()

	s := &Store{CH: &fakeCH{pingErr: errors.New("down")}}
	err := s.Guard(context.Background())
	if err == nil || !strings.Contains(err.Error(), "ch: down") {
		t.Fatalf("want ch: down, got %v", err)
	}
}

func TestOpen_WithOptionsOnly(t *testing.T) {
	t.Parallel()

	f := &fakeCH{}
	s, err := Open(context.Background(), Config{}, WithLogger(zerolog.New(io.Discard)), WithCH(f))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.CH != f || s.PG != nil || s.Lite != nil {
		t.Fatalf("unexpected seams: %+v", s)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !f.closed {
		t.Fatalf("ch not closed")
	}
}

func TestClose_JoinsErrors(t *testing.T) {
	t.Parallel()

	s := &Store{CH: &fakeCH{closeErr: errors.New("boom")}}
	if err := s.Close(context.Background()); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestCHAdapter_InsertShape(t *testing.T) {
	t.Parallel()

	a := newCHAdapter(&chFake{})
	if err := a.Insert(context.Background(), "t", []string{"x"}); err == nil {
		t.Fatalf("want shape error")
	}
	if err := a.Insert(context.Background(), "t", [][]any{{1, "a"}}); err != nil {
		t.Fatalf("insert: %v", err)
	}
}
