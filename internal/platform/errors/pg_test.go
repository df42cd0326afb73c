package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDBErrorCodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		{"23502", ErrorCodeValidation},
		{"23514", ErrorCodeValidation},
		{"42P01", ErrorCodeNotFound},
		{"25006", ErrorCodeUnavailable},
		{"57P03", ErrorCodeUnavailable},
		{"XXXXX", ErrorCodeDB},
	}
	for _, c := range cases {
		got, ok := DBErrorCode(&pgconn.PgError{Code: c.code})
		if !ok {
			t.Fatalf("expected ok for PgError code %s", c.code)
		}
		if got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v, want %v", c.code, got, c.want)
		}
	}
	if _, ok := DBErrorCode(stderrs.New("nope")); ok {
		t.Fatalf("DBErrorCode should return ok=false for non-pg error")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil || FromPostgresf(nil, "x %d", 1) != nil {
		t.Fatalf("nil should pass through")
	}

	wrapped := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"})
	err := FromPostgresf(wrapped, "insert %s", "upload_history")
	if !IsCode(err, ErrorCodeDuplicateKey) {
		t.Fatalf("code = %v", CodeOf(err))
	}
	if !IsDuplicateKey(err) {
		t.Fatalf("IsDuplicateKey should see through wrapping")
	}

	if got := FromPostgres(stderrs.New("conn reset"), "query"); !IsCode(got, ErrorCodeDB) {
		t.Fatalf("foreign error should map to DB, got %v", CodeOf(got))
	}
	if !IsUndefinedTable(&pgconn.PgError{Code: "42P01"}) {
		t.Fatalf("IsUndefinedTable")
	}
}
