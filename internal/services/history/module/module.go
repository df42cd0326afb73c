// Package module wires the upload ledger into the API and the census driver
package module

import (
	"context"
	"net/http"

	"censusbq/internal/modkit"
	"censusbq/internal/modkit/httpkit"
	"censusbq/internal/modkit/repokit"
	"censusbq/internal/platform/store"
	str "censusbq/internal/platform/strings"

	"censusbq/internal/services/history/domain"
	historyhttp "censusbq/internal/services/history/http"
	"censusbq/internal/services/history/repo"
	"censusbq/internal/services/history/service"
)

// Ports exposed by the history module; both are nil when the ledger is disabled
type Ports struct {
	Ledger domain.LedgerPort
	Query  domain.QueryPort
}

// Module implements modkit.Module
type Module struct {
	deps     modkit.Deps
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)
	backend  string
	svc      *service.Service
	ports    Ports
}

// New constructs the history module over the backend chosen by CORE_HISTORY_BACKEND.
// A backend whose store seam is missing leaves the ledger disabled
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg)
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("history"),
	}, opts...)...)

	m := &Module{deps: deps, name: b.Name, prefix: b.Prefix, mws: b.Mw, backend: o.Backend}
	if r := repoFor(o.Backend, deps); r != nil {
		m.svc = service.New(r, service.Config{HardLimit: o.HardLimit})
		m.ports = Ports{Ledger: m.svc, Query: m.svc}
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		if m.ports.Query != nil {
			historyhttp.Register(r, m.ports.Query)
		}
		external(r)
	}
	return m
}

func repoFor(backend string, deps modkit.Deps) domain.Repo {
	switch backend {
	case store.BackendSQLite:
		if deps.Lite != nil {
			return repo.NewSQLite().Bind(deps.Lite)
		}
	case store.BackendPG:
		if deps.PG != nil {
			return repokit.MustBind(repo.NewPG(), deps.PG)
		}
	case store.BackendCH:
		if deps.CH != nil {
			return repo.NewCH(deps.CH)
		}
	}
	return nil
}

// Init creates the ledger table; a disabled ledger is a no-op
func (m *Module) Init(ctx context.Context) error {
	if m.svc == nil {
		return nil
	}
	return m.svc.EnsureSchema(ctx)
}

// Enabled reports whether a backend is wired
func (m *Module) Enabled() bool { return m.svc != nil }

// Backend returns the configured backend name
func (m *Module) Backend() string { return m.backend }

// Name satisfies modkit.Module
func (m *Module) Name() string { return str.MustString(m.name, "history") }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; without a prefix option the routes sit where r is
func (m *Module) MountRoutes(r httpkit.Router) {
	modkit.Built{Prefix: m.prefix, Mw: m.mws, Register: m.register}.Mount(r)
}
