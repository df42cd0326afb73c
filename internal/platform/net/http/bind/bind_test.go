package bind

import (
	"net/http/httptest"
	"testing"

	perr "censusbq/internal/platform/errors"
)

type listQuery struct {
	File   string `query:"file"`
	Status string `query:"status" validate:"omitempty,oneof=STARTED COMPLETED FAILED"`
	Limit  int    `query:"limit" validate:"min=1,max=500"`
	Desc   bool   `query:"desc"`
}

func (q *listQuery) Defaults() {
	if q.Limit == 0 {
		q.Limit = 50
	}
}

func TestQuery_DecodesAndDefaults(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/v1/uploads?file=20140101&status=FAILED&desc=true", nil)
	q, err := Query[listQuery](r)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if q.File != "20140101" || q.Status != "FAILED" || !q.Desc || q.Limit != 50 {
		t.Fatalf("decoded = %+v", q)
	}
}

func TestQuery_ValidationCarriesField(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/x?limit=501":     "limit",
		"/x?status=queued": "status",
	}
	for url, field := range cases {
		_, err := Query[listQuery](httptest.NewRequest("GET", url, nil))
		if !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("%s: want validation error, got %v", url, err)
		}
		e, _ := perr.As(err)
		if e.Field() != field {
			t.Fatalf("%s: field = %q want %q", url, e.Field(), field)
		}
	}
}

func TestQuery_BadScalar(t *testing.T) {
	t.Parallel()

	for _, url := range []string{"/x?limit=ten", "/x?desc=maybe"} {
		_, err := Query[listQuery](httptest.NewRequest("GET", url, nil))
		if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("%s: want invalid argument, got %v", url, err)
		}
	}
}

func TestQuery_UnsupportedKind(t *testing.T) {
	t.Parallel()

	type bad struct {
		F float64 `query:"f"`
	}
	_, err := Query[bad](httptest.NewRequest("GET", "/x?f=1.5", nil))
	if err == nil {
		t.Fatalf("want error for float field")
	}
}

func TestStruct_MessageIsTranslated(t *testing.T) {
	t.Parallel()

	err := Struct(listQuery{Limit: 0})
	e, ok := perr.As(err)
	if !ok {
		t.Fatalf("want *perr.Error, got %v", err)
	}
	if e.Field() != "limit" {
		t.Fatalf("field = %q", e.Field())
	}
	if got := err.Error(); got == "" {
		t.Fatalf("empty message")
	}
}
