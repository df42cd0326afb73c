// Package bigquery loads JSON-lines files into a BigQuery table, either as a batch load
// job or through streaming inserts
package bigquery

import (
	"strings"
	"time"

	perr "censusbq/internal/platform/errors"
)

// Write dispositions accepted by Config.WriteDisposition
const (
	WriteAppend   = "WRITE_APPEND"
	WriteEmpty    = "WRITE_EMPTY"
	WriteTruncate = "WRITE_TRUNCATE"
)

// DefaultPollInterval is how often a batch load job is polled
const DefaultPollInterval = time.Second

// Config describes one upload target
type Config struct {
	ProjectID string
	DatasetID string
	TableID   string

	// CredentialFile is a service account key; empty falls back to GOOGLE_JSON_KEY,
	// then application default credentials
	CredentialFile string
	SchemaFile     string

	// TemplateSuffix and InsertIDField only apply to streaming uploads
	TemplateSuffix string
	InsertIDField  string

	CreateTable      bool
	Streaming        bool
	PollInterval     time.Duration
	WriteDisposition string
	UploadType       string
}

// Validate fills defaults and rejects incomplete targets
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.ProjectID) == "":
		return perr.WithField(perr.InvalidArgf("please provide Google BigQuery projectId with -projectId option"), "projectId")
	case strings.TrimSpace(c.DatasetID) == "":
		return perr.WithField(perr.InvalidArgf("please provide Google BigQuery datasetId with -datasetId option"), "datasetId")
	case strings.TrimSpace(c.TableID) == "":
		return perr.WithField(perr.InvalidArgf("please provide Google BigQuery tableId with -tableId option"), "tableId")
	}
	if c.CreateTable && c.SchemaFile == "" {
		return perr.WithField(perr.InvalidArgf("-schemaFile required with -createTable option"), "schemaFile")
	}
	switch c.WriteDisposition {
	case "":
		c.WriteDisposition = WriteAppend
	case WriteAppend, WriteEmpty, WriteTruncate:
	default:
		return perr.WithField(perr.InvalidArgf("-writeDisposition must be one of %s (default), %s or %s",
			WriteAppend, WriteEmpty, WriteTruncate), "writeDisposition")
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.UploadType == "" {
		c.UploadType = "census"
	}
	return nil
}
