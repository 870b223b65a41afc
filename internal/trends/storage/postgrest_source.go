package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"ktrend_api/pkg/clients/postgrest"
	"net/url"
	"strconv"
	"strings"
)

// PostgRESTSource reads tables through the REST gateway.
type PostgRESTSource struct {
	client *postgrest.BaseClient
}

func NewPostgRESTSource(client *postgrest.BaseClient) *PostgRESTSource {
	return &PostgRESTSource{client: client}
}

func (s *PostgRESTSource) Select(ctx context.Context, q *Query) (*Result, error) {
	params := EncodeParams(q)
	resp, err := s.client.Get(ctx, q.Table, params, q.Count == CountExact, q.Head)
	if err != nil {
		return nil, wrapClientError(q.Table, err)
	}

	res := &Result{}
	if !q.Head && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &res.Rows); err != nil {
			return nil, &QueryError{Table: q.Table, Message: "decode rows: " + err.Error(), Err: err}
		}
	}
	res.Count = len(res.Rows)
	if q.Count == CountExact && resp.Total >= 0 {
		res.Count = resp.Total
	}
	return res, nil
}

func wrapClientError(table string, err error) error {
	var apiErr *postgrest.APIError
	if errors.As(err, &apiErr) {
		return &QueryError{Table: table, Status: apiErr.Status, Message: apiErr.Message, Err: err}
	}
	return &QueryError{Table: table, Message: err.Error(), Err: err}
}

// EncodeParams renders q in PostgREST's horizontal filtering syntax.
func EncodeParams(q *Query) url.Values {
	params := url.Values{}
	params.Set("select", q.columnList())

	for _, f := range q.Filters {
		params.Add(filterKey(f), filterValue(f))
	}
	if len(q.Or) > 0 {
		parts := make([]string, len(q.Or))
		for i, f := range q.Or {
			parts[i] = filterKey(f) + "." + string(f.Op) + "." + quote(filterOperand(f))
		}
		params.Add("or", "("+strings.Join(parts, ",")+")")
	}
	if len(q.Order) > 0 {
		parts := make([]string, len(q.Order))
		for i, o := range q.Order {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts[i] = o.Column + "." + dir
		}
		params.Set("order", strings.Join(parts, ","))
	}
	if q.Head {
		params.Set("limit", "1")
	} else if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 && !q.Head {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	return params
}

func filterKey(f Filter) string {
	if f.JSONKey != "" {
		return f.Column + "->>" + f.JSONKey
	}
	return f.Column
}

func filterValue(f Filter) string {
	if f.Op == OpIn {
		items := make([]string, len(f.Values))
		for i, v := range f.Values {
			items[i] = quote(scalar(v))
		}
		return "in.(" + strings.Join(items, ",") + ")"
	}
	return string(f.Op) + "." + filterOperand(f)
}

func filterOperand(f Filter) string {
	if f.Op == OpILike {
		return "*" + escapePattern(scalar(f.Value)) + "*"
	}
	return scalar(f.Value)
}

// escapePattern makes LIKE metacharacters literal. PostgREST turns every * into %
// and offers no escape for it, so a literal * becomes the one-character wildcard _,
// which still matches the asterisk itself.
func escapePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `*`, `_`)
	return r.Replace(s)
}

func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// quote wraps a value in double quotes so reserved characters (, . : ( )) survive
// inside in.(...) and or=(...) lists.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
