package http

import (
	"net/http"

	"censusbq/internal/platform/net/http/bind"
)

// QueryHandler adapts a handler taking validated query input T to a platform Handler.
// A Response returned as the value is written as-is
func QueryHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.Query[T](r)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

// NoInputHandler calls fn without binding anything and wraps the result
func NoInputHandler(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response { return result(fn(r)) })
}

func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}

// GetQuery mounts a query-bound JSON handler under GET
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Get(path, QueryHandler(h))
}

// Get mounts an input-less JSON handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, NoInputHandler(h))
}
