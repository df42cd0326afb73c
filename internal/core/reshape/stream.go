package reshape

import (
	"bufio"
	"bytes"
	"io"

	perr "censusbq/internal/platform/errors"
)

// LineReader yields lines without terminators and io.EOF at the end
type LineReader interface {
	Next() ([]byte, error)
}

// LineWriter accepts one output line at a time
type LineWriter interface {
	WriteLine([]byte) error
}

// UsageLines runs Usage over every line of src into dst and returns the number of records
// written. Whitespace-only lines are skipped; the first failing line aborts the stream
func UsageLines(src LineReader, dst LineWriter) (int, error) {
	n, lineNo := 0, 0
	for {
		line, err := src.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		lineNo++
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		out, err := Usage(line)
		if err != nil {
			return n, perr.WithField(perr.Wrapf(err, perr.CodeOf(err), "line %d", lineNo), "line")
		}
		if err := dst.WriteLine(out); err != nil {
			return n, perr.Wrapf(err, perr.ErrorCodeUnknown, "write line %d", lineNo)
		}
		n++
	}
}

// UsageStream is UsageLines over plain readers and writers
func UsageStream(r io.Reader, w io.Writer) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 32*1024*1024)
	bw := bufio.NewWriter(w)
	n, err := UsageLines(scanLines{sc}, lineWriter{bw})
	if ferr := bw.Flush(); err == nil && ferr != nil {
		err = ferr
	}
	return n, err
}

type scanLines struct{ sc *bufio.Scanner }

func (s scanLines) Next() ([]byte, error) {
	if s.sc.Scan() {
		return s.sc.Bytes(), nil
	}
	if err := s.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

type lineWriter struct{ w *bufio.Writer }

func (l lineWriter) WriteLine(b []byte) error {
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	return l.w.WriteByte('\n')
}

// WriteLines writes every line followed by a newline
func WriteLines(dst LineWriter, lines [][]byte) error {
	for _, l := range lines {
		if err := dst.WriteLine(l); err != nil {
			return err
		}
	}
	return nil
}
