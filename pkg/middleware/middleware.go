package middleware

import (
	"context"
	"errors"
	"ktrend_api/internal/trends/storage"
	"ktrend_api/metrics"
	"ktrend_api/pkg/logger"
	"time"
)

// QueryMetrics records every store query as a prometheus sample.
func QueryMetrics() storage.QueryMiddleware {
	return func(next storage.SelectFunc) storage.SelectFunc {
		return func(ctx context.Context, q *storage.Query) (*storage.Result, error) {
			start := time.Now()
			res, err := next(ctx, q)
			metrics.RecordQuery(q.Table, queryStatus(err), time.Since(start))
			return res, err
		}
	}
}

// QueryLogging logs failed queries and, when verbose, every query.
func QueryLogging(log logger.Logger, verbose bool) storage.QueryMiddleware {
	log = logger.OrNop(log)
	return func(next storage.SelectFunc) storage.SelectFunc {
		return func(ctx context.Context, q *storage.Query) (*storage.Result, error) {
			start := time.Now()
			res, err := next(ctx, q)
			switch {
			case err != nil:
				log.Log("query %s failed after %v: %v", q.Table, time.Since(start), err)
			case verbose:
				log.Log("query %s: %d rows, count %d, %v", q.Table, len(res.Rows), res.Count, time.Since(start))
			}
			return res, err
		}
	}
}

func queryStatus(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "cancelled"
	}
	return "error"
}
