// Package module defines the minimal contract for a modkit module
package module

import (
	phttp "censusbq/internal/platform/net/http"
)

// Module is what the API composes: routes plus a port set other modules may consume
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
