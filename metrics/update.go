package metrics

import "sync/atomic"

// JobMetrics counts freshness job outcomes across runs.
type JobMetrics struct {
	Runs          atomic.Int32
	CheckedCount  atomic.Int32
	StaleCount    atomic.Int32
	ErroredChecks atomic.Int32
}
