package storage

import "strings"

// Operator is the subset of tabular predicates the upstream API supports.
type Operator string

const (
	OpEq    Operator = "eq"
	OpILike Operator = "ilike"
	OpIn    Operator = "in"
	OpGte   Operator = "gte"
	OpLt    Operator = "lt"
)

// Filter is one predicate. JSONKey addresses a key inside a JSON column (tags->>gender).
// ILike values are substrings: wildcards are added by the Source.
type Filter struct {
	Column  string
	JSONKey string
	Op      Operator
	Value   any
	Values  []any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

func ILike(column, substring string) Filter {
	return Filter{Column: column, Op: OpILike, Value: substring}
}

func Gte(column string, value any) Filter {
	return Filter{Column: column, Op: OpGte, Value: value}
}

func Lt(column string, value any) Filter {
	return Filter{Column: column, Op: OpLt, Value: value}
}

func JSONEq(column, key string, value any) Filter {
	return Filter{Column: column, JSONKey: key, Op: OpEq, Value: value}
}

// In builds a membership filter from any slice of scalar ids.
func In[T any](column string, values []T) Filter {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return Filter{Column: column, Op: OpIn, Values: vs}
}

type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

type CountMode int

const (
	CountNone CountMode = iota
	CountExact
)

// Query is a single-table read: no joins, no grouping, no window functions.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	// Or holds predicates of which at least one must match.
	Or     []Filter
	Order  []Order
	Limit  int
	Offset int
	Count  CountMode
	// Head asks for the exact count only, no rows.
	Head bool
}

func From(table string) *Query {
	return &Query{Table: table}
}

func (q *Query) Select(columns ...string) *Query {
	q.Columns = append(q.Columns, columns...)
	return q
}

func (q *Query) Where(filters ...Filter) *Query {
	q.Filters = append(q.Filters, filters...)
	return q
}

func (q *Query) AnyOf(filters ...Filter) *Query {
	q.Or = append(q.Or, filters...)
	return q
}

func (q *Query) OrderBy(orders ...Order) *Query {
	q.Order = append(q.Order, orders...)
	return q
}

func (q *Query) Page(limit, offset int) *Query {
	q.Limit = limit
	q.Offset = offset
	return q
}

func (q *Query) WithCount() *Query {
	q.Count = CountExact
	return q
}

func (q *Query) CountOnly() *Query {
	q.Count = CountExact
	q.Head = true
	return q
}

func (q *Query) columnList() string {
	if len(q.Columns) == 0 {
		return "*"
	}
	return strings.Join(q.Columns, ",")
}

// Result carries the rows and, when requested, the exact total of matching rows.
type Result struct {
	Rows  []Row
	Count int
}
