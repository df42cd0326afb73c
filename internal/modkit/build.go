package modkit

import (
	"net/http"

	"censusbq/internal/modkit/httpkit"
	str "censusbq/internal/platform/strings"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	Register func(httpkit.Router)
}

// Build applies Option funcs and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Mount mounts b under its prefix with its middlewares; an empty prefix mounts at the root
func (b Built) Mount(r httpkit.Router) {
	if b.Prefix == "" {
		r.Group(func(g httpkit.Router) {
			if len(b.Mw) > 0 {
				g.Use(b.Mw...)
			}
			b.Register(g)
		})
		return
	}
	httpkit.MountUnder(r, str.MustPrefix(b.Prefix), b.Mw, b.Register)
}
