// Package convert runs the single-file pipelines: one usage file, one extensions document
package convert

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"censusbq/internal/adapters/snapshot"
	"censusbq/internal/core/reshape"
	perr "censusbq/internal/platform/errors"
	"censusbq/internal/platform/logger"
)

// Usage reshapes every record of src into dst. A src ending in .gz is gunzipped on the fly.
// dst only appears once every line converted
func Usage(ctx context.Context, src, dst string) (int, error) {
	start := time.Now()
	fh, err := os.Open(src)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeNotFound, "convert: open %s", src)
	}
	rd, err := snapshot.NewReader(fh, filepath.Base(src), strings.HasSuffix(src, ".gz"))
	if err != nil {
		return 0, err
	}
	defer rd.Close()

	sink, err := snapshot.Create(dst)
	if err != nil {
		return 0, err
	}
	defer sink.Abort()

	n, err := reshape.UsageLines(rd, sink)
	if err != nil {
		return n, perr.WithOp(err, src)
	}
	if err := sink.Commit(); err != nil {
		return n, err
	}

	lines, bytes := rd.Stats()
	logger.C(ctx).Info().
		Str("source", src).
		Str("output", dst).
		Int("lines", lines).
		Int("records", n).
		Int64("bytes", bytes).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("usage converted")
	return n, nil
}

// Extensions flattens the artifacts of the document in src into dst, one per line.
// The whole document is read first; dst is created even when there are no artifacts
func Extensions(ctx context.Context, src, dst string) (int, error) {
	start := time.Now()
	fh, err := os.Open(src)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeNotFound, "convert: open %s", src)
	}
	doc, err := io.ReadAll(snapshot.Text(fh))
	_ = fh.Close()
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeUnknown, "convert: read %s", src)
	}

	lines, err := reshape.Extension(doc)
	if err != nil {
		return 0, perr.WithOp(err, src)
	}

	sink, err := snapshot.Create(dst)
	if err != nil {
		return 0, err
	}
	defer sink.Abort()
	if err := reshape.WriteLines(sink, lines); err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeUnknown, "convert: write %s", dst)
	}
	if err := sink.Commit(); err != nil {
		return 0, err
	}

	logger.C(ctx).Info().
		Str("source", src).
		Str("output", dst).
		Int("artifacts", len(lines)).
		Int("bytes", len(doc)).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("extensions converted")
	return len(lines), nil
}
