package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Dialect renders the parts of a Query that differ between SQL engines.
type Dialect interface {
	Name() string
	Placeholder(n int) string
	JSONText(column, key string) string
	CaseInsensitiveLike() string
	// In renders a membership test starting at placeholder n and returns the args it consumed.
	In(column string, values []any, n int) (string, []any)
	LimitOffset(limit, offset int) string
}

type PostgresDialect struct{}

func (PostgresDialect) Name() string { return "postgres" }

func (PostgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (PostgresDialect) JSONText(column, key string) string {
	return fmt.Sprintf("%s->>'%s'", column, key)
}

func (PostgresDialect) CaseInsensitiveLike() string { return "ILIKE" }

// In binds the whole list as one array parameter.
func (PostgresDialect) In(column string, values []any, n int) (string, []any) {
	return fmt.Sprintf("%s = ANY($%d)", column, n), []any{arrayArg(values)}
}

func (PostgresDialect) LimitOffset(limit, offset int) string {
	var b strings.Builder
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	if offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", offset)
	}
	return b.String()
}

// arrayArg picks a typed pq array so the server can infer the element type.
func arrayArg(values []any) any {
	ints := make([]int64, 0, len(values))
	for _, v := range values {
		n, ok := sqlArg(v).(int64)
		if !ok {
			strs := make([]string, len(values))
			for i, v := range values {
				strs[i] = scalar(v)
			}
			return pq.StringArray(strs)
		}
		ints = append(ints, n)
	}
	return pq.Int64Array(ints)
}

type SQLiteDialect struct{}

func (SQLiteDialect) Name() string { return "sqlite" }

func (SQLiteDialect) Placeholder(int) string { return "?" }

func (SQLiteDialect) JSONText(column, key string) string {
	return fmt.Sprintf("json_extract(%s, '$.%s')", column, key)
}

// LIKE is case-insensitive for ASCII in SQLite.
func (SQLiteDialect) CaseInsensitiveLike() string { return "LIKE" }

func (SQLiteDialect) In(column string, values []any, _ int) (string, []any) {
	marks := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		marks[i] = "?"
		args[i] = sqlArg(v)
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(marks, ",")), args
}

func (SQLiteDialect) LimitOffset(limit, offset int) string {
	switch {
	case limit > 0 && offset > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	case limit > 0:
		return fmt.Sprintf(" LIMIT %d", limit)
	case offset > 0:
		return fmt.Sprintf(" LIMIT -1 OFFSET %d", offset)
	}
	return ""
}
