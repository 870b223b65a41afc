package storage

import "context"

// Source is the upstream tabular query interface: filtered, ordered, paged reads
// of a single table with an optional exact count.
type Source interface {
	Select(ctx context.Context, q *Query) (*Result, error)
}

// SelectFunc adapts a function to Source.
type SelectFunc func(ctx context.Context, q *Query) (*Result, error)

func (f SelectFunc) Select(ctx context.Context, q *Query) (*Result, error) {
	return f(ctx, q)
}

// QueryMiddleware decorates every Select, e.g. for metrics or logging.
type QueryMiddleware func(next SelectFunc) SelectFunc

// Chain wraps src so that the first middleware is the outermost.
func Chain(src Source, mws ...QueryMiddleware) Source {
	next := SelectFunc(src.Select)
	for i := len(mws) - 1; i >= 0; i-- {
		next = mws[i](next)
	}
	return next
}
