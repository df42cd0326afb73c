// Package module wires the probe endpoints at the API root
package module

import (
	"time"

	"censusbq/internal/core/version"
	"censusbq/internal/modkit"
	"censusbq/internal/modkit/httpkit"
	str "censusbq/internal/platform/strings"

	metahttp "censusbq/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	built     modkit.Built
	startedAt time.Time
}

// New constructs a meta module; with no prefix option the probes sit at the root
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta")}, opts...)...)
	m := &Module{startedAt: time.Now()}

	readyTimeout := deps.Cfg.Prefix("CORE_API_").MayDuration("READY_TIMEOUT", 2*time.Second)
	external := b.Register
	b.Register = func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName:  version.Info().Service,
			StartedAt:    m.startedAt,
			PG:           deps.PG,
			CH:           deps.CH,
			Lite:         deps.Lite,
			ReadyTimeout: readyTimeout,
		})
		external(r)
	}
	m.built = b
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) { m.built.Mount(r) }

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "meta") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
