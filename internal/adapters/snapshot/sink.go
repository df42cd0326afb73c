package snapshot

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	perr "censusbq/internal/platform/errors"
)

// Sink writes an output file through a .part temp that is renamed into place on Commit.
// Abort (or a failed Commit) removes the temp, so callers can always defer Abort
type Sink struct {
	path  string
	tmp   string
	f     *os.File
	w     *bufio.Writer
	lines int
	done  bool
}

// Create opens a sink for path, creating parent directories as needed
func Create(path string) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "snapshot: mkdir %s", dir)
		}
	}
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "snapshot: create %s", tmp)
	}
	return &Sink{path: path, tmp: tmp, f: f, w: bufio.NewWriterSize(f, 256*1024)}, nil
}

// WriteLine writes b followed by a newline
func (s *Sink) WriteLine(b []byte) error {
	if _, err := s.w.Write(b); err != nil {
		return err
	}
	s.lines++
	return s.w.WriteByte('\n')
}

// Write implements io.Writer for stream helpers; lines are not counted
func (s *Sink) Write(p []byte) (int, error) { return s.w.Write(p) }

// Lines returns how many lines went through WriteLine
func (s *Sink) Lines() int { return s.lines }

// Path returns the final output path
func (s *Sink) Path() string { return s.path }

// Commit flushes, closes and renames the temp file into place
func (s *Sink) Commit() error {
	if s.done {
		return nil
	}
	s.done = true
	ferr := s.w.Flush()
	cerr := s.f.Close()
	if ferr == nil {
		ferr = cerr
	}
	if ferr != nil {
		s.remove()
		return perr.Wrapf(ferr, perr.ErrorCodeUnknown, "snapshot: write %s", s.path)
	}
	if err := os.Rename(s.tmp, s.path); err != nil {
		s.remove()
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "snapshot: rename %s", s.path)
	}
	return nil
}

// Abort discards the output; a no-op after Commit
func (s *Sink) Abort() {
	if s.done {
		return
	}
	s.done = true
	_ = s.f.Close()
	s.remove()
}

func (s *Sink) remove() {
	if err := os.Remove(s.tmp); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "error removing %s: %v\n", s.tmp, err)
	}
}
