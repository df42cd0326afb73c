// Package repo provides the upload ledger storage: sqlite, postgres and clickhouse
package repo

import (
	"fmt"
	"strings"

	"censusbq/internal/services/history/domain"

	"github.com/google/uuid"
)

// Table is the ledger table name on every backend
const Table = "upload_history"

// DefaultLimit applies when a Filter carries no limit
const DefaultLimit = 50

// where renders the WHERE clause for f; ph renders the n-th placeholder
func where(f domain.Filter, ph func(n int) string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string { args = append(args, v); return ph(len(args)) }

	if f.FileName != "" {
		conds = append(conds, "file_name = "+arg(f.FileName))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(string(f.Status)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func limitOf(f domain.Filter) int {
	if f.Limit <= 0 {
		return DefaultLimit
	}
	return f.Limit
}

func dollar(n int) string { return fmt.Sprintf("$%d", n) }

func question(int) string { return "?" }

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("history: bad id %q: %w", s, err)
	}
	return id, nil
}
