package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func header(name string) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.Header().Set(name, "1")
			next.ServeHTTP(w, r)
		})
	}
}

func text(s string) Handler {
	return func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { _, _ = w.Write([]byte(s)) }
}

func TestAdaptChi_RootGroupRoute(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())
	r.Use(header("X-Root"))
	r.Get("/root", text("root"))
	r.Group(func(g Router) {
		g.Use(header("X-Group"))
		g.Get("/g", text("g"))
	})
	r.Route("/v1", func(sr Router) {
		sr.Use(header("X-Route"))
		sr.Get("/ping", text("pong"))
		sr.Head("/ping", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(stdhttp.StatusNoContent) })
		sr.Handle("/raw", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
			w.WriteHeader(stdhttp.StatusTeapot)
		}))
	})

	cases := []struct {
		method, path string
		status       int
		body         string
		headers      []string
		absent       []string
	}{
		{"GET", "/root", 200, "root", []string{"X-Root"}, []string{"X-Group", "X-Route"}},
		{"GET", "/g", 200, "g", []string{"X-Root", "X-Group"}, []string{"X-Route"}},
		{"GET", "/v1/ping", 200, "pong", []string{"X-Root", "X-Route"}, []string{"X-Group"}},
		{"HEAD", "/v1/ping", 204, "", []string{"X-Route"}, nil},
		{"POST", "/v1/ping", 405, "", nil, nil},
		{"GET", "/v1/raw", 418, "", nil, nil},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.status {
			t.Fatalf("%s %s: status %d want %d", tc.method, tc.path, rec.Code, tc.status)
		}
		if tc.body != "" && rec.Body.String() != tc.body {
			t.Fatalf("%s %s: body %q want %q", tc.method, tc.path, rec.Body.String(), tc.body)
		}
		for _, h := range tc.headers {
			if rec.Header().Get(h) != "1" {
				t.Fatalf("%s %s: missing %s", tc.method, tc.path, h)
			}
		}
		for _, h := range tc.absent {
			if rec.Header().Get(h) != "" {
				t.Fatalf("%s %s: unexpected %s", tc.method, tc.path, h)
			}
		}
	}
}
