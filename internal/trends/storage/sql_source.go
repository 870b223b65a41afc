package storage

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
)

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// SQLSource runs Queries directly against a database with the same single-table
// semantics as the REST gateway.
type SQLSource struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLSource(db *sql.DB, dialect Dialect) *SQLSource {
	return &SQLSource{db: db, dialect: dialect}
}

func (s *SQLSource) Select(ctx context.Context, q *Query) (*Result, error) {
	where, args, err := s.where(q)
	if err != nil {
		return nil, &QueryError{Table: q.Table, Message: err.Error(), Err: err}
	}

	res := &Result{}
	if !q.Head {
		stmt, err := s.selectStatement(q, where)
		if err != nil {
			return nil, &QueryError{Table: q.Table, Message: err.Error(), Err: err}
		}
		res.Rows, err = s.queryRows(ctx, stmt, args)
		if err != nil {
			return nil, &QueryError{Table: q.Table, Message: err.Error(), Err: err}
		}
		res.Count = len(res.Rows)
	}

	if q.Count == CountExact {
		stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", q.Table, where)
		var total int
		if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&total); err != nil {
			return nil, &QueryError{Table: q.Table, Message: err.Error(), Err: err}
		}
		res.Count = total
	}
	return res, nil
}

func (s *SQLSource) selectStatement(q *Query, where string) (string, error) {
	for _, c := range q.Columns {
		if !identifier.MatchString(c) {
			return "", fmt.Errorf("invalid column %q", c)
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s%s", q.columnList(), q.Table, where)
	if len(q.Order) > 0 {
		parts := make([]string, len(q.Order))
		for i, o := range q.Order {
			if !identifier.MatchString(o.Column) {
				return "", fmt.Errorf("invalid order column %q", o.Column)
			}
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts[i] = o.Column + " " + dir
		}
		b.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	b.WriteString(s.dialect.LimitOffset(q.Limit, q.Offset))
	return b.String(), nil
}

func (s *SQLSource) where(q *Query) (string, []any, error) {
	if !identifier.MatchString(q.Table) {
		return "", nil, fmt.Errorf("invalid table %q", q.Table)
	}
	var (
		clauses []string
		args    []any
	)
	for _, f := range q.Filters {
		clause, fArgs, err := s.predicate(f, len(args)+1)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, fArgs...)
	}
	if len(q.Or) > 0 {
		var alts []string
		for _, f := range q.Or {
			clause, fArgs, err := s.predicate(f, len(args)+1)
			if err != nil {
				return "", nil, err
			}
			alts = append(alts, clause)
			args = append(args, fArgs...)
		}
		clauses = append(clauses, "("+strings.Join(alts, " OR ")+")")
	}
	if len(clauses) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func (s *SQLSource) predicate(f Filter, n int) (string, []any, error) {
	if !identifier.MatchString(f.Column) {
		return "", nil, fmt.Errorf("invalid column %q", f.Column)
	}
	column := f.Column
	if f.JSONKey != "" {
		if !identifier.MatchString(f.JSONKey) {
			return "", nil, fmt.Errorf("invalid json key %q", f.JSONKey)
		}
		column = s.dialect.JSONText(f.Column, f.JSONKey)
	}

	ph := s.dialect.Placeholder(n)
	switch f.Op {
	case OpEq:
		return column + " = " + ph, []any{sqlArg(f.Value)}, nil
	case OpGte:
		return column + " >= " + ph, []any{sqlArg(f.Value)}, nil
	case OpLt:
		return column + " < " + ph, []any{sqlArg(f.Value)}, nil
	case OpILike:
		pattern := "%" + escapeLike(scalar(f.Value)) + "%"
		return fmt.Sprintf(`%s %s %s ESCAPE '\'`, column, s.dialect.CaseInsensitiveLike(), ph), []any{pattern}, nil
	case OpIn:
		if len(f.Values) == 0 {
			return "1 = 0", nil, nil
		}
		clause, args := s.dialect.In(column, f.Values, n)
		return clause, args, nil
	}
	return "", nil, fmt.Errorf("unsupported operator %q", f.Op)
}

func (s *SQLSource) queryRows(ctx context.Context, stmt string, args []any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, c := range columns {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// sqlArg lowers named types (InternalID, ExternalID) to driver primitives.
func sqlArg(v any) any {
	switch t := v.(type) {
	case nil, string, int64, float64, bool, []byte, time.Time:
		return t
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}
	return scalar(v)
}
