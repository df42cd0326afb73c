package bigquery

import (
	"bytes"
	"encoding/json"
	"os"

	perr "censusbq/internal/platform/errors"

	bq "cloud.google.com/go/bigquery"
)

// LoadSchema reads a table schema file holding either a bare field array or {"fields": [...]}
func LoadSchema(path string) (bq.Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "bigquery: read schema %s", path)
	}
	return ParseSchema(b)
}

// ParseSchema is LoadSchema over bytes
func ParseSchema(b []byte) (bq.Schema, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var wrapped struct {
			Fields json.RawMessage `json:"fields"`
		}
		if err := json.Unmarshal(b, &wrapped); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeJSON, "bigquery: schema")
		}
		if len(wrapped.Fields) == 0 {
			return nil, perr.JSONErrf("bigquery: schema object has no fields")
		}
		b = wrapped.Fields
	}
	s, err := bq.SchemaFromJSON(b)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "bigquery: schema")
	}
	return s, nil
}
