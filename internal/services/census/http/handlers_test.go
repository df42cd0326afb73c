package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	phttp "censusbq/internal/platform/net/http"
	"censusbq/internal/platform/testkit"
	dom "censusbq/internal/services/census/domain"
	"censusbq/internal/services/census/service"

	"github.com/go-chi/chi/v5"
)

func TestSnapshots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, d := range []string{"20140102", "20140103", "20140101"} {
		testkit.WriteGzip(t, dir, "usage."+d+".gz", "{}\n")
	}
	svc := service.New(dom.LoaderFunc(func(context.Context, dom.LoadRequest) error { return nil }), nil, service.Config{})

	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, svc, dir)
	missing := phttp.AdaptChi(chi.NewRouter())
	Register(missing, svc, filepath.Join(dir, "gone"))

	cases := []struct {
		r      phttp.Router
		url    string
		status int
		body   string
	}{
		{r, "/snapshots", 200, `"name":"20140103"`},
		{r, "/snapshots?order=asc&limit=1", 200, `"page":{"limit":1,"count":1}`},
		{r, "/snapshots?order=sideways", 400, `"field":"order"`},
		{r, "/snapshots?limit=-1", 400, `"field":"limit"`},
		{missing, "/snapshots", 404, `"kind":"not_found"`},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		tc.r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.url, nil))
		if rec.Code != tc.status {
			t.Fatalf("%s: status %d want %d: %s", tc.url, rec.Code, tc.status, rec.Body.String())
		}
		testkit.MustContain(t, rec.Body.String(), tc.body)
	}
}
