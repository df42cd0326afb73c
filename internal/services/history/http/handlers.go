// Package http exposes the upload ledger read endpoint
package http

import (
	"net/http"

	"censusbq/internal/modkit/httpkit"
	dom "censusbq/internal/services/history/domain"
)

type handlers struct {
	svc dom.QueryPort
}

// Register mounts the ledger routes
func Register(r httpkit.Router, svc dom.QueryPort) {
	h := &handlers{svc: svc}
	httpkit.GetQuery(r, "/uploads", h.list)
}

// ListQuery is the query string of GET /uploads
type ListQuery struct {
	File   string `query:"file"   validate:"omitempty,max=255"`
	Status string `query:"status" validate:"omitempty,oneof=STARTED COMPLETED FAILED"`
	Limit  int    `query:"limit"  validate:"min=1,max=500"`
}

// Defaults fills the page size when none was asked for
func (q *ListQuery) Defaults() {
	if q.Limit == 0 {
		q.Limit = 50
	}
}

func (h *handlers) list(r *http.Request, q ListQuery) (any, error) {
	rows, err := h.svc.List(r.Context(), dom.Filter{
		FileName: q.File,
		Status:   dom.Status(q.Status),
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []dom.Entry{}
	}
	return httpkit.List(rows, q.Limit, len(rows)), nil
}
