package snapshot

import (
	"bufio"
	stderrs "errors"
	"io"
	"os"

	perr "censusbq/internal/platform/errors"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	initialScanBuf   = 512 * 1024
	maxScanTokenSize = 32 * 1024 * 1024
)

// Reader streams decompressed lines out of one snapshot
type Reader struct {
	name       string
	r          io.ReadCloser
	gz         *gzip.Reader
	sc         *bufio.Scanner
	compressed bool
	err        error
	lines      int
	bytes      int64
}

// Open opens a snapshot for line iteration. Compressed files are gunzipped on the fly;
// a gzip header failure is reported as a decompression error
func Open(f File) (*Reader, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "snapshot: open %s", f.Path)
	}
	return NewReader(fh, f.FullName, f.Compressed)
}

// NewReader wraps an already open stream; name is only used in error messages
func NewReader(r io.ReadCloser, name string, compressed bool) (*Reader, error) {
	rd := &Reader{name: name, r: r, compressed: compressed}
	var src io.Reader = r
	if compressed {
		gz, err := gzip.NewReader(r)
		if err != nil {
			_ = r.Close()
			return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeDecompression, "snapshot: %s is not valid gzip", name), name)
		}
		rd.gz = gz
		src = gz
	}
	rd.sc = bufio.NewScanner(Text(src))
	rd.sc.Buffer(make([]byte, initialScanBuf), maxScanTokenSize)
	return rd, nil
}

// Text strips a leading byte order mark and transcodes UTF-16 input (when so marked) to UTF-8
func Text(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
}

// Next returns the next line without its terminator; io.EOF when done.
// The slice is only valid until the following call
func (rd *Reader) Next() ([]byte, error) {
	if rd.err != nil {
		return nil, rd.err
	}
	if !rd.sc.Scan() {
		rd.err = io.EOF
		if err := rd.sc.Err(); err != nil {
			rd.err = rd.classify(err)
		}
		return nil, rd.err
	}
	line := rd.sc.Bytes()
	rd.lines++
	rd.bytes += int64(len(line) + 1)
	return line, nil
}

func (rd *Reader) classify(err error) error {
	switch {
	case stderrs.Is(err, bufio.ErrTooLong):
		return perr.Wrapf(err, perr.ErrorCodeValidation, "snapshot: %s line %d exceeds %d bytes", rd.name, rd.lines+1, maxScanTokenSize)
	case rd.compressed:
		return perr.WithField(perr.Wrapf(err, perr.ErrorCodeDecompression, "snapshot: %s is corrupt or truncated", rd.name), rd.name)
	default:
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "snapshot: read %s", rd.name)
	}
}

// Close closes the gzip stream and then the file; the first error wins
func (rd *Reader) Close() error {
	var first error
	if rd.gz != nil {
		first = rd.gz.Close()
	}
	if rd.r != nil {
		if err := rd.r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Stats returns the number of lines read and uncompressed bytes consumed so far
func (rd *Reader) Stats() (lines int, bytes int64) {
	return rd.lines, rd.bytes
}
