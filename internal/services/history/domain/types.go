// Package domain defines the upload ledger types and ports
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of one upload attempt
type Status string

// Upload states, in the order an attempt moves through them
const (
	StatusStarted   Status = "STARTED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Statuses lists every valid Status
var Statuses = []Status{StatusStarted, StatusCompleted, StatusFailed}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusStarted, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// UploadType tells census uploads from extension uploads
type UploadType string

// Upload types
const (
	UploadCensus    UploadType = "census"
	UploadExtension UploadType = "extension"
)

// Entry is one ledger row; an attempt writes STARTED then COMPLETED or FAILED
type Entry struct {
	ID         uuid.UUID  `json:"id"`
	FileName   string     `json:"file_name"`
	UploadType UploadType `json:"upload_type"`
	Status     Status     `json:"status"`
	SizeBytes  int64      `json:"size_bytes"`
	SizeMB     float64    `json:"size_mb"`
	FileDate   *time.Time `json:"file_date,omitempty"`
	RecordedAt time.Time  `json:"recorded_at"`
	Error      string     `json:"error,omitempty"`
}

// Upload describes a file about to be loaded
type Upload struct {
	// FileName is the ledger key, the output name the loader receives
	FileName string
	// Path is used to stat the size; may be empty
	Path     string
	Type     UploadType
	FileDate *time.Time
}

// Filter narrows List; zero values match everything
type Filter struct {
	FileName string
	Status   Status
	Limit    int
}
