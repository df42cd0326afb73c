// Package httpkit re-exports the platform http helpers modules use,
// so service packages do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "censusbq/internal/platform/net/http"
)

type (
	// Response is the HTTP response type
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Error maps an error to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// List returns a 200 response with items and the page block
func List(items any, limit, count int) Response { return phttp.List(items, limit, count) }

// Unavailable returns a 503 carrying data
func Unavailable(data any) Response { return phttp.Unavailable(data) }

// GetQuery mounts a GET handler whose query string binds and validates into T
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.GetQuery(r, path, h)
}

// Get mounts a GET handler without input
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.Get(r, path, h)
}
