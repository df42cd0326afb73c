package reshape

import (
	"bytes"
	"encoding/json"

	perr "censusbq/internal/platform/errors"
)

var (
	hyphen     = []byte("-")
	underscore = []byte("_")
)

// Extension flattens an extension document into one line per artifact. Each value of the
// top-level "artifacts" object is rendered compactly, in document order, and every '-' in
// the rendered text becomes '_' (keys and values alike). No artifacts object, no lines
func Extension(doc []byte) ([][]byte, error) {
	obj, err := ParseObject(doc)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "reshape: extension document is not a JSON object")
	}
	raw, ok := obj.Get("artifacts")
	if !ok || !isObject(raw) {
		return nil, nil
	}
	artifacts, err := ParseObject(raw)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "reshape: artifacts")
	}

	lines := make([][]byte, 0, artifacts.Len())
	for _, m := range artifacts.Members() {
		var buf bytes.Buffer
		if err := json.Compact(&buf, m.Value); err != nil {
			return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeJSON, "reshape: artifact"), m.Key)
		}
		lines = append(lines, bytes.ReplaceAll(buf.Bytes(), hyphen, underscore))
	}
	return lines, nil
}
