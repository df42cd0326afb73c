package snapshot

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	perr "censusbq/internal/platform/errors"
)

// DateLayout is the layout of the date token embedded in snapshot names
const DateLayout = "20060102"

// Pattern selects snapshot files in a directory
const Pattern = "*.gz"

// File describes one snapshot on disk
type File struct {
	Path       string    `json:"path"`
	FullName   string    `json:"full_name"`
	Name       string    `json:"name"`
	Date       time.Time `json:"date"`
	Compressed bool      `json:"compressed"`
	Size       int64     `json:"size"`
}

// ParseName extracts the date token from a file base name: the name is split on '.'
// and the second-to-last segment must parse as YYYYMMDD
func ParseName(fullName string) (string, time.Time, error) {
	parts := strings.Split(fullName, ".")
	if len(parts) < 2 {
		return "", time.Time{}, perr.WithField(
			perr.FilenameFormatf("snapshot: %q has no date segment", fullName), fullName)
	}
	token := parts[len(parts)-2]
	d, err := time.Parse(DateLayout, token)
	if err != nil {
		return "", time.Time{}, perr.WithField(
			perr.Wrapf(err, perr.ErrorCodeFilenameFormat, "snapshot: %q: date token %q is not YYYYMMDD", fullName, token),
			fullName)
	}
	return token, d, nil
}

// New builds a descriptor for the file at path
func New(path string) (File, error) {
	full := filepath.Base(path)
	name, d, err := ParseName(full)
	if err != nil {
		return File{}, err
	}
	f := File{
		Path:       path,
		FullName:   full,
		Name:       name,
		Date:       d,
		Compressed: strings.HasSuffix(full, ".gz"),
	}
	if st, err := os.Stat(path); err == nil {
		f.Size = st.Size()
	}
	return f, nil
}

// List enumerates the snapshots in dir and orders them by date; descending puts the
// newest first. Any file whose name has no date token fails the whole listing
func List(dir string, descending bool) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "snapshot: read dir %s", dir)
	}
	files := make([]File, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if ok, _ := filepath.Match(Pattern, name); !ok {
			continue
		}
		f, err := New(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	Sort(files, descending)
	return files, nil
}

// Sort orders files by date in place; files with equal dates keep their relative order
func Sort(files []File, descending bool) {
	sort.SliceStable(files, func(i, j int) bool {
		if descending {
			return files[i].Date.After(files[j].Date)
		}
		return files[i].Date.Before(files[j].Date)
	})
}

// Take returns the first n files; n <= 0 means all of them
func Take(files []File, n int) []File {
	if n <= 0 || n >= len(files) {
		return files
	}
	return files[:n]
}
