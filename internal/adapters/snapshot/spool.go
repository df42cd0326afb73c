package snapshot

import (
	"io"
	"os"

	perr "censusbq/internal/platform/errors"

	"github.com/klauspost/compress/gzip"
)

// RawSuffix is appended to the output name for the intermediate decompressed file
const RawSuffix = ".raw"

// Spool writes the full decompressed content of f to rawPath and returns the number of
// bytes written. The raw file is left in place for inspection; a failure removes it
func Spool(f File, rawPath string) (int64, error) {
	in, err := os.Open(f.Path)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeNotFound, "snapshot: open %s", f.Path)
	}
	defer in.Close()

	var src io.Reader = in
	if f.Compressed {
		gz, err := gzip.NewReader(in)
		if err != nil {
			return 0, perr.WithField(perr.Wrapf(err, perr.ErrorCodeDecompression, "snapshot: %s is not valid gzip", f.FullName), f.FullName)
		}
		defer gz.Close()
		src = gz
	}

	out, err := os.Create(rawPath)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeUnknown, "snapshot: create %s", rawPath)
	}
	n, cpErr := io.Copy(out, src)
	clErr := out.Close()
	if cpErr != nil {
		_ = os.Remove(rawPath)
		if f.Compressed {
			return n, perr.WithField(perr.Wrapf(cpErr, perr.ErrorCodeDecompression, "snapshot: %s is corrupt or truncated", f.FullName), f.FullName)
		}
		return n, perr.Wrapf(cpErr, perr.ErrorCodeUnknown, "snapshot: copy %s", f.FullName)
	}
	if clErr != nil {
		_ = os.Remove(rawPath)
		return n, perr.Wrapf(clErr, perr.ErrorCodeUnknown, "snapshot: close %s", rawPath)
	}
	return n, nil
}

// OpenRaw opens a spooled file for line iteration
func OpenRaw(rawPath string) (*Reader, error) {
	fh, err := os.Open(rawPath)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "snapshot: open %s", rawPath)
	}
	return NewReader(fh, rawPath, false)
}
