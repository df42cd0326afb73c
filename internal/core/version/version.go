// Package version reports build information set through -ldflags
package version

// BuildInfo holds version information about the build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information.
// Set via -ldflags "-X 'censusbq/internal/core/version.version=v0.1.0' -X ...commit=abcd -X ...date=2026-01-02"
func Info() BuildInfo {
	return BuildInfo{
		Service: "censusbq",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
