package storage

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// maxPageRows stays below the gateway's max-rows ceiling so paged reads never truncate silently.
const maxPageRows = 1000

// selectAll pages through q until a short page comes back.
func selectAll(ctx context.Context, src Source, q *Query) ([]Row, error) {
	var rows []Row
	for offset := 0; ; offset += maxPageRows {
		page := *q
		page.Limit, page.Offset, page.Count = maxPageRows, offset, CountNone
		res, err := src.Select(ctx, &page)
		if err != nil {
			return nil, err
		}
		rows = append(rows, res.Rows...)
		if len(res.Rows) < maxPageRows {
			return rows, nil
		}
	}
}

// Batcher splits large IN lists so request URLs stay bounded, fetching chunks concurrently.
type Batcher struct {
	Size        int
	Concurrency int
}

func (b Batcher) size() int {
	if b.Size <= 0 {
		return 150
	}
	return b.Size
}

// fetchBatched runs fetch over ids in chunks; rows are returned in chunk order.
func fetchBatched[K comparable](ctx context.Context, b Batcher, ids []K, fetch func(ctx context.Context, chunk []K) ([]Row, error)) ([]Row, error) {
	ids = uniq(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	var chunks [][]K
	for start := 0; start < len(ids); start += b.size() {
		end := min(start+b.size(), len(ids))
		chunks = append(chunks, ids[start:end])
	}

	results := make([][]Row, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	if b.Concurrency > 0 {
		g.SetLimit(b.Concurrency)
	}
	for i, chunk := range chunks {
		g.Go(func() error {
			rows, err := fetch(gctx, chunk)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Row
	for _, rows := range results {
		out = append(out, rows...)
	}
	return out, nil
}

func uniq[K comparable](ids []K) []K {
	seen := make(map[K]struct{}, len(ids))
	out := make([]K, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
