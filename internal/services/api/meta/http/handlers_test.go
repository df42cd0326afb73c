package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "censusbq/internal/platform/net/http"
	"censusbq/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func serve(t *testing.T, d Deps, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, d)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReady(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		deps   Deps
		status int
		body   string
	}{
		{"nothing wired", Deps{}, 200, `{"name":"ch","status":"skipped"}`},
		{"healthy", Deps{PG: pinger{}, Lite: pinger{}}, 200, `{"name":"pg","status":"ok"}`},
		{"no ping method", Deps{CH: struct{}{}}, 200, `{"name":"ch","status":"ok"}`},
		{"pg down", Deps{PG: pinger{errors.New("refused")}, Lite: pinger{}}, 503, `"error":"pg ping failed: refused"`},
	}
	for _, tc := range cases {
		rec := serve(t, tc.deps, "/ready")
		if rec.Code != tc.status {
			t.Fatalf("%s: status %d want %d: %s", tc.name, rec.Code, tc.status, rec.Body.String())
		}
		testkit.MustContain(t, rec.Body.String(), tc.body)
	}
}

func TestHealthAndVersion(t *testing.T) {
	t.Parallel()

	d := Deps{ServiceName: "censusbq", StartedAt: time.Now().Add(-time.Minute)}
	rec := serve(t, d, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("health %d", rec.Code)
	}
	testkit.MustContain(t, rec.Body.String(), `"ok":true`)
	testkit.MustContain(t, rec.Body.String(), `"service":"censusbq"`)

	rec = serve(t, d, "/version")
	testkit.MustContain(t, rec.Body.String(), `"service":"censusbq"`)
	testkit.MustContain(t, rec.Body.String(), `"commit":"none"`)
}
