package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

type pageIn struct {
	Order string `query:"order" validate:"oneof=asc desc"`
	Limit int    `query:"limit" validate:"min=0,max=100"`
}

func (p *pageIn) Defaults() {
	if p.Order == "" {
		p.Order = "desc"
	}
}

func TestGetQuery_BindsAndWraps(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())
	GetQuery(r, "/items", func(_ *http.Request, in pageIn) (any, error) {
		return List([]string{in.Order}, in.Limit, 1), nil
	})
	Get(r, "/boom", func(*http.Request) (any, error) { return nil, errors.New("boom") })
	Get(r, "/plain", func(*http.Request) (any, error) { return map[string]int{"n": 1}, nil })

	cases := []struct {
		path   string
		status int
		want   string
	}{
		{"/items", 200, `"data":["desc"]`},
		{"/items?order=asc&limit=5", 200, `"limit":5`},
		{"/items?order=sideways", 400, `"field":"order"`},
		{"/items?limit=x", 422, `"field":"limit"`},
		{"/boom", 500, `"error":"boom"`},
		{"/plain", 200, `"data":{"n":1}`},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.status {
			t.Fatalf("%s: status %d want %d body=%s", tc.path, rec.Code, tc.status, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), tc.want) {
			t.Fatalf("%s: body %s missing %s", tc.path, rec.Body.String(), tc.want)
		}
	}
}
