// Package http provides the probe and build endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"censusbq/internal/core/version"
	"censusbq/internal/modkit/httpkit"
	"censusbq/internal/modkit/repokit"
)

// Deps are the handler dependencies. Seams left nil are reported as skipped
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	Lite        any
	// ReadyTimeout bounds the whole readiness check; 0 means 2s
	ReadyTimeout time.Duration
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
	Uptime  int64  `json:"uptime"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok fail skipped
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}

// ready pings every wired backend and answers 503 when one of them fails
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), h.deps.ReadyTimeout)
	defer cancel()

	check := func(name string, seam any) ReadyCheck {
		if seam == nil {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if err := repokit.Ping(ctx, name, seam); err != nil {
			return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
		}
		return ReadyCheck{Name: name, Status: "ok"}
	}

	out := ReadyResponse{
		Status: "ok",
		Checks: []ReadyCheck{
			check("pg", h.deps.PG),
			check("ch", h.deps.CH),
			check("sqlite", h.deps.Lite),
		},
		Now: time.Now().UTC().Format(time.RFC3339),
	}
	for _, c := range out.Checks {
		if c.Status == "fail" {
			out.Status = "fail"
			return httpkit.Unavailable(out), nil
		}
	}
	return out, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}
