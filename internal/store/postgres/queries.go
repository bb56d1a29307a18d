package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// argBuilder numbers positional query placeholders.
type argBuilder struct {
	args []any
}

func (b *argBuilder) add(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// parseSortClause validates a "-col" style sort against an allowlist and
// returns an ORDER BY fragment. Unknown columns fall back to fallback.
func parseSortClause(sort, fallback string, allowed map[string]bool) string {
	if sort == "" {
		return fallback
	}
	desc := strings.HasPrefix(sort, "-")
	col := strings.TrimPrefix(sort, "-")
	if !allowed[col] {
		return fallback
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}

// rowsAffectedOrNoRows maps zero affected rows to sql.ErrNoRows so callers
// can distinguish "not found" from other failures.
func rowsAffectedOrNoRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
