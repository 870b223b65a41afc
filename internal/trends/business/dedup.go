package business

import (
	"ktrend_api/internal/trends/models"
	"sort"
	"time"
)

// latestBy keeps one row per key: the one with the greatest observation time.
// On equal times the first row seen wins, so input ordered newest-first yields
// "first seen = latest". Keys are returned in first-seen order.
func latestBy[K comparable, T any](rows []T, key func(T) K, observedAt func(T) time.Time) (map[K]T, []K) {
	out := make(map[K]T, len(rows))
	order := make([]K, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		cur, seen := out[k]
		if !seen {
			out[k] = row
			order = append(order, k)
			continue
		}
		if observedAt(row).After(observedAt(cur)) {
			out[k] = row
		}
	}
	return out, order
}

// DedupeRankings collapses intraday snapshot rows to one canonical row per product.
// Callers should pass rows ordered by capture time descending.
func DedupeRankings(rows []models.RankingSnapshot) map[models.InternalID]models.RankingSnapshot {
	out, _ := latestBy(rows,
		func(r models.RankingSnapshot) models.InternalID { return r.ProductID },
		models.RankingSnapshot.ObservedAt)
	return out
}

// SortByRank orders deduplicated rows by rank, best first, then by product id.
func SortByRank(rows map[models.InternalID]models.RankingSnapshot) []models.RankingSnapshot {
	out := make([]models.RankingSnapshot, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

func dedupeDeals(rows []models.DealSnapshot) ([]models.DealSnapshot, []models.ExternalID) {
	byID, order := latestBy(rows,
		func(d models.DealSnapshot) models.ExternalID { return d.ProductID },
		func(d models.DealSnapshot) time.Time { return models.ObservedAt(d.CapturedAt, d.Date) })
	out := make([]models.DealSnapshot, len(order))
	for i, id := range order {
		out[i] = byID[id]
	}
	return out, order
}

func rankIDs(rows []models.RankingSnapshot) []models.InternalID {
	ids := make([]models.InternalID, len(rows))
	for i, r := range rows {
		ids[i] = r.ProductID
	}
	return ids
}
