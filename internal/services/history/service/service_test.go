package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	perr "censusbq/internal/platform/errors"
	"censusbq/internal/platform/testkit"
	dom "censusbq/internal/services/history/domain"
)

type memRepo struct {
	rows    []dom.Entry
	lastF   dom.Filter
	listErr error
}

func (m *memRepo) EnsureSchema(context.Context) error { return nil }

func (m *memRepo) Record(_ context.Context, e dom.Entry) error {
	m.rows = append(m.rows, e)
	return nil
}

func (m *memRepo) Statuses(_ context.Context, name string) ([]dom.Status, error) {
	var out []dom.Status
	for _, e := range m.rows {
		if e.FileName == name {
			out = append(out, e.Status)
		}
	}
	return out, nil
}

func (m *memRepo) List(_ context.Context, f dom.Filter) ([]dom.Entry, error) {
	m.lastF = f
	return m.rows, m.listErr
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("X", 3600))
	return func() time.Time { t = t.Add(time.Second); return t }
}

func TestBeginCompleteFail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := &memRepo{}
	svc := New(repo, Config{Now: fixedClock()})

	out := filepath.Join(t.TempDir(), "20140101")
	if err := os.WriteFile(out, []byte(strings.Repeat("x", 2_345_678)), 0o644); err != nil {
		t.Fatal(err)
	}

	e, err := svc.Begin(ctx, dom.Upload{FileName: "20140101", Path: out})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if e.Status != dom.StatusStarted || e.UploadType != dom.UploadCensus {
		t.Fatalf("begin entry %+v", e)
	}
	if e.SizeBytes != 2_345_678 || e.SizeMB != 2.35 {
		t.Fatalf("size %d %v", e.SizeBytes, e.SizeMB)
	}
	if e.FileDate == nil || !e.FileDate.Equal(time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("file date %v", e.FileDate)
	}
	if e.RecordedAt.Location() != time.UTC {
		t.Fatalf("recorded_at must be UTC")
	}

	if err := svc.Complete(ctx, e); err != nil {
		t.Fatal(err)
	}
	if err := svc.Fail(ctx, e, errors.New("exit status 2")); err != nil {
		t.Fatal(err)
	}

	got, _ := svc.Previous(ctx, "20140101")
	want := []dom.Status{dom.StatusStarted, dom.StatusCompleted, dom.StatusFailed}
	if len(got) != len(want) {
		t.Fatalf("previous %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("previous %v want %v", got, want)
		}
	}
	if repo.rows[1].ID == e.ID || !repo.rows[1].RecordedAt.After(e.RecordedAt) {
		t.Fatal("follow up rows need their own id and time")
	}
	if repo.rows[2].Error != "exit status 2" {
		t.Fatalf("fail message %q", repo.rows[2].Error)
	}
}

func TestBegin_FileDates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := New(&memRepo{}, Config{Now: fixedClock()})

	ext, err := svc.Begin(ctx, dom.Upload{FileName: "extensions.json", Type: dom.UploadExtension})
	if err != nil || ext.FileDate == nil || !ext.FileDate.Equal(ext.RecordedAt) {
		t.Fatalf("extension uploads are dated now: %+v %v", ext, err)
	}

	named, _ := svc.Begin(ctx, dom.Upload{FileName: "usage.20130405.gz"})
	if named.FileDate == nil || named.FileDate.Month() != time.April {
		t.Fatalf("dotted name date %v", named.FileDate)
	}

	odd, _ := svc.Begin(ctx, dom.Upload{FileName: "whatever"})
	if odd.FileDate != nil {
		t.Fatalf("undated census name should have no file date")
	}

	_, err = svc.Begin(ctx, dom.Upload{})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("empty name: %v", err)
	}
}

func TestList_Limits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := &memRepo{}
	svc := New(repo, Config{HardLimit: 100})

	cases := []struct{ in, want int }{{0, 50}, {-1, 50}, {10, 10}, {101, 100}}
	for _, tc := range cases {
		if _, err := svc.List(ctx, dom.Filter{Limit: tc.in}); err != nil {
			t.Fatal(err)
		}
		if repo.lastF.Limit != tc.want {
			t.Fatalf("limit %d -> %d want %d", tc.in, repo.lastF.Limit, tc.want)
		}
	}

	if _, err := svc.List(ctx, dom.Filter{Status: "DONE"}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("bad status: %v", err)
	}
	repo.listErr = errors.New("db down")
	if _, err := svc.List(ctx, dom.Filter{}); !errors.Is(err, repo.listErr) {
		t.Fatalf("list error: %v", err)
	}
}

func TestSizeMB(t *testing.T) {
	t.Parallel()
	cases := map[int64]float64{0: 0, 4_999: 0, 5_000: 0.01, 1_000_000: 1, 12_344_999: 12.34}
	for in, want := range cases {
		if got := SizeMB(in); got != want {
			t.Fatalf("SizeMB(%d) = %v want %v", in, got, want)
		}
	}
	testkit.MustPanic(t, func() { New(nil, Config{}) })
}
