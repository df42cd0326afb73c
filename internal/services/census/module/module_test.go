package module

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"censusbq/internal/modkit"
	mod "censusbq/internal/modkit/module"
	"censusbq/internal/platform/config"
	phttp "censusbq/internal/platform/net/http"
	"censusbq/internal/platform/testkit"
	dom "censusbq/internal/services/census/domain"
	historydom "censusbq/internal/services/history/domain"

	"github.com/go-chi/chi/v5"
)

var nopLoader = dom.LoaderFunc(func(context.Context, dom.LoadRequest) error { return nil })

type nopLedger struct{}

func (nopLedger) Begin(context.Context, historydom.Upload) (historydom.Entry, error) {
	return historydom.Entry{}, nil
}

func (nopLedger) Complete(context.Context, historydom.Entry) error { return nil }

func (nopLedger) Fail(context.Context, historydom.Entry, error) error { return nil }

func (nopLedger) Previous(context.Context, string) ([]historydom.Status, error) {
	return nil, nil
}

func TestFromConfig(t *testing.T) {
	o := FromConfig(config.New())
	if o.Dir != "." || o.Service.Limit != 3 || o.Service.Policy != dom.PolicyContinue || !o.Service.SkipUploaded {
		t.Fatalf("defaults %+v", o)
	}
	if o.Service.SchemaFile != "./schema/usage-schema.json" || o.Service.CredentialFile != "./gapipk.json" {
		t.Fatalf("file defaults %+v", o.Service)
	}

	t.Setenv("CORE_CENSUS_LIMIT", "7")
	t.Setenv("CORE_CENSUS_ON_LOAD_FAILURE", "Abort")
	t.Setenv("CORE_CENSUS_SPOOL_RAW", "true")
	o = FromConfig(config.New())
	if o.Service.Limit != 7 || o.Service.Policy != dom.PolicyAbort || !o.Service.SpoolRaw {
		t.Fatalf("overrides %+v", o.Service)
	}

	t.Setenv("CORE_CENSUS_ON_LOAD_FAILURE", "retry")
	testkit.MustPanic(t, func() { FromConfig(config.New()) })
}

func TestModule_PortsAndRoutes(t *testing.T) {
	dir := t.TempDir()
	testkit.WriteGzip(t, dir, "usage.20140101.gz", "{}\n")
	t.Setenv("CORE_CENSUS_DIR", dir)

	m := New(modkit.Deps{Cfg: config.New()}, nopLoader, modkit.WithPrefix("/v1"))
	if m.Name() != "census" || m.Tracked() {
		t.Fatalf("name=%s tracked=%v", m.Name(), m.Tracked())
	}
	if _, ok := mod.PortsOf[dom.RunnerPort](m); !ok {
		t.Fatal("runner port missing")
	}

	tracked := New(modkit.Deps{Cfg: config.New()}, nopLoader, modkit.WithPorts[dom.History](nopLedger{}))
	if !tracked.Tracked() {
		t.Fatal("ledger from WithPorts not wired")
	}
	var none dom.History
	if New(modkit.Deps{Cfg: config.New()}, nopLoader, modkit.WithPorts(none)).Tracked() {
		t.Fatal("nil ledger should leave the run untracked")
	}

	r := phttp.AdaptChi(chi.NewRouter())
	m.MountRoutes(r)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/snapshots", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	testkit.MustContain(t, rec.Body.String(), `"name":"20140101"`)
}
