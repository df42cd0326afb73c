// Package http exposes the snapshot listing
package http

import (
	"net/http"

	"censusbq/internal/modkit/httpkit"
	dom "censusbq/internal/services/census/domain"
)

type handlers struct {
	svc dom.ListerPort
	dir string
}

// Register mounts the census routes; dir is the directory being listed
func Register(r httpkit.Router, svc dom.ListerPort, dir string) {
	h := &handlers{svc: svc, dir: dir}
	httpkit.GetQuery(r, "/snapshots", h.list)
}

// SnapshotQuery is the query string of GET /snapshots
type SnapshotQuery struct {
	Order string `query:"order" validate:"oneof=asc desc"`
	Limit int    `query:"limit" validate:"min=0,max=1000"`
}

// Defaults lists newest first
func (q *SnapshotQuery) Defaults() {
	if q.Order == "" {
		q.Order = "desc"
	}
}

func (h *handlers) list(r *http.Request, q SnapshotQuery) (any, error) {
	files, err := h.svc.Snapshots(r.Context(), h.dir, q.Order == "desc", q.Limit)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []dom.Snapshot{}
	}
	return httpkit.List(files, q.Limit, len(files)), nil
}
