// Package domain defines the census pipeline types and ports
package domain

import (
	"fmt"
	"strings"

	"censusbq/internal/adapters/snapshot"
)

// Snapshot is one dated census file
type Snapshot = snapshot.File

// LoadRequest is what a Loader receives for one transformed snapshot
type LoadRequest struct {
	File        string
	Schema      string
	Credentials string
	UploadType  string
}

// FailurePolicy decides what a failed load does to the rest of the run
type FailurePolicy string

// Failure policies
const (
	// PolicyContinue logs the failure and moves on to the next snapshot
	PolicyContinue FailurePolicy = "continue"
	// PolicyAbort stops the run with the load error
	PolicyAbort FailurePolicy = "abort"
)

// ParsePolicy accepts continue or abort, case-insensitively
func ParsePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyContinue:
		return PolicyContinue, nil
	case PolicyAbort:
		return PolicyAbort, nil
	}
	return "", fmt.Errorf("unknown load failure policy %q (want continue or abort)", s)
}

// Summary reports what a run did
type Summary struct {
	Listed    int      `json:"listed"`
	Processed int      `json:"processed"`
	Loaded    []string `json:"loaded"`
	Failed    []string `json:"failed"`
	Skipped   []string `json:"skipped"`
	Outputs   []string `json:"outputs"`
}
