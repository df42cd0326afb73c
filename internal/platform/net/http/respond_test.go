package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "censusbq/internal/platform/errors"
	pnet "censusbq/internal/platform/net"
	phttp "censusbq/internal/platform/net/http"
)

func serve(t *testing.T, h phttp.Handler, rid string) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), rid))
	rec := httptest.NewRecorder()
	h(rec, req)

	var env phttp.Envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v body=%s", err, rec.Body.String())
		}
	}
	return rec, env
}

func TestJSON_SetsContentType(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTeapot, map[string]any{"k": "v"})
	if rec.Code != http.StatusTeapot || rec.Header().Get("Content-Type") == "" {
		t.Fatalf("code=%d ct=%q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestHandle_OK(t *testing.T) {
	t.Parallel()

	rec, env := serve(t, phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.OK(map[string]string{"a": "b"})
	}), "rid-1")
	if rec.Code != 200 || env.StatusCode != 200 || env.RequestID != "rid-1" || env.Data == nil {
		t.Fatalf("bad envelope: %d %+v", rec.Code, env)
	}
	if env.Page != nil || env.Error != "" {
		t.Fatalf("unexpected page/error: %+v", env)
	}
}

func TestHandle_List(t *testing.T) {
	t.Parallel()

	_, env := serve(t, phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.List([]int{1, 2}, 50, 2)
	}), "")
	if env.Page == nil || env.Page.Limit != 50 || env.Page.Count != 2 {
		t.Fatalf("page = %+v", env.Page)
	}
}

func TestHandle_NoContent(t *testing.T) {
	t.Parallel()

	rec, _ := serve(t, phttp.Handle(func(*http.Request) phttp.Response { return phttp.NoContent() }), "")
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("code=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		kind   string
		field  string
	}{
		{"not found", perr.NotFoundf("no snapshots"), 404, "not_found", ""},
		{"invalid arg", perr.WithField(perr.InvalidArgf("bad order"), "order"), 422, "invalid_argument", "order"},
		{"validation", perr.New(perr.ErrorCodeValidation, "limit too big"), 400, "validation", ""},
		{"plain", errors.New("boom"), 500, "unknown", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := serve(t, phttp.Handle(func(*http.Request) phttp.Response { return phttp.Error(tc.err) }), "rid")
			if rec.Code != tc.status || env.StatusCode != tc.status {
				t.Fatalf("status %d/%d want %d", rec.Code, env.StatusCode, tc.status)
			}
			if env.Kind != tc.kind || env.Field != tc.field || env.Error == "" {
				t.Fatalf("envelope = %+v", env)
			}
			if env.RequestID != "rid" {
				t.Fatalf("request id = %q", env.RequestID)
			}
		})
	}
}

func TestHandle_Unavailable(t *testing.T) {
	t.Parallel()

	rec, env := serve(t, phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Unavailable(map[string]string{"sqlite": "down"})
	}), "")
	if rec.Code != http.StatusServiceUnavailable || env.Data == nil {
		t.Fatalf("code=%d env=%+v", rec.Code, env)
	}
}

func TestHandle_ExtraHeaders(t *testing.T) {
	t.Parallel()

	rec, _ := serve(t, phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Response{Body: "x", Header: http.Header{"X-Extra": {"1"}}}
	}), "")
	if rec.Code != 200 || rec.Header().Get("X-Extra") != "1" {
		t.Fatalf("code=%d header=%q", rec.Code, rec.Header().Get("X-Extra"))
	}
}
