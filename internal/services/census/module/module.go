// Package module wires the census pipeline for the CLI and the ops API
package module

import (
	"net/http"

	"censusbq/internal/modkit"
	"censusbq/internal/modkit/httpkit"
	str "censusbq/internal/platform/strings"

	dom "censusbq/internal/services/census/domain"
	censushttp "censusbq/internal/services/census/http"
	"censusbq/internal/services/census/service"
)

// Ports exposed by the census module
type Ports struct {
	Runner dom.RunnerPort
	Lister dom.ListerPort
}

// Module implements modkit.Module
type Module struct {
	deps     modkit.Deps
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)
	opts     Options
	svc      *service.Service
	ports    Ports
}

// New constructs the census module around loader. The upload ledger is taken from
// modkit.WithPorts when given a dom.History; without one the run is untracked
func New(deps modkit.Deps, loader dom.Loader, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg)
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("census"),
	}, opts...)...)

	history, _ := b.Ports.(dom.History)
	svc := service.New(loader, history, o.Service)
	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		opts:   o,
		svc:    svc,
		ports:  Ports{Runner: svc, Lister: svc},
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		censushttp.Register(r, m.ports.Lister, o.Dir)
		external(r)
	}
	return m
}

// Tracked reports whether runs are recorded in the upload ledger
func (m *Module) Tracked() bool { return m.svc.History != nil }

// Options returns the resolved configuration
func (m *Module) Options() Options { return m.opts }

// Name satisfies modkit.Module
func (m *Module) Name() string { return str.MustString(m.name, "census") }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; without a prefix option the routes sit where r is
func (m *Module) MountRoutes(r httpkit.Router) {
	modkit.Built{Prefix: m.prefix, Mw: m.mws, Register: m.register}.Mount(r)
}
