package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"censusbq/internal/modkit/module"
	"censusbq/internal/platform/config"
	phttp "censusbq/internal/platform/net/http"
	"censusbq/internal/platform/store"
	"censusbq/internal/platform/testkit"
	censusdom "censusbq/internal/services/census/domain"
	historydom "censusbq/internal/services/history/domain"
	historymod "censusbq/internal/services/history/module"

	"github.com/go-chi/chi/v5"
)

func TestMount_ServesEveryRoute(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	testkit.WriteGzip(t, dir, "usage.20140101.gz", "{}\n")
	t.Setenv("CORE_CENSUS_DIR", dir)
	t.Setenv("CORE_HISTORY_BACKEND", "sqlite")
	t.Cleanup(module.Reset)

	st, err := store.Open(ctx, store.Config{Lite: store.SQLiteConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "h.db")}})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close(ctx) })

	mux := chi.NewRouter()
	Stack(config.New().Prefix("CORE_API_"))(mux)
	r := phttp.AdaptChi(mux)
	mods, err := Mount(ctx, r, Options{
		Config: config.New(),
		Store:  st,
		Loader: censusdom.LoaderFunc(func(context.Context, censusdom.LoadRequest) error { return nil }),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(mods) != 3 {
		t.Fatalf("mounted %d modules", len(mods))
	}
	if _, ok := module.PortsAs[historymod.Ports]("history"); !ok {
		t.Fatal("history ports not registered")
	}

	cases := []struct {
		path   string
		status int
		body   string
	}{
		{"/health", 200, `"service":"censusbq"`},
		{"/ready", 200, `{"name":"sqlite","status":"ok"}`},
		{"/version", 200, `"version":`},
		{"/v1/uploads", 200, `"data":[]`},
		{"/v1/snapshots?order=asc", 200, `"name":"20140101"`},
		{"/v1/nothing", 404, ``},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.status {
			t.Fatalf("%s: status %d want %d: %s", tc.path, rec.Code, tc.status, rec.Body.String())
		}
		testkit.MustContain(t, rec.Body.String(), tc.body)
		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s: request id header missing", tc.path)
		}
	}

	ledger := module.MustPortsOf[historydom.LedgerPort](mods[1])
	if _, err := ledger.Begin(ctx, historydom.Upload{FileName: "20140101"}); err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/uploads?status=STARTED", nil))
	testkit.MustContain(t, rec.Body.String(), `"file_name":"20140101"`)
}

func TestMount_WithoutStore(t *testing.T) {
	t.Setenv("CORE_HISTORY_BACKEND", "none")
	t.Cleanup(module.Reset)

	mux := chi.NewRouter()
	if _, err := Mount(context.Background(), phttp.AdaptChi(mux), Options{Config: config.New()}); err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ready: %d %s", rec.Code, rec.Body.String())
	}
	testkit.MustContain(t, rec.Body.String(), `{"name":"pg","status":"skipped"}`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/uploads", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("uploads without ledger: %d", rec.Code)
	}
}
