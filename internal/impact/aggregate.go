// Package impact implements the aggregation engine behind the dashboard and
// authority views: time-window filtering of contributions, per-category
// sums, environmental impact conversion, badge classification, and fleet
// capacity totals. Every function is pure over the record slices it is
// given; callers supply the full record set and the package performs no I/O.
package impact

import (
	"time"

	"github.com/ecosort/ecosort/internal/store"
	"github.com/ecosort/ecosort/internal/waste"
)

// Window lengths for the dashboard summaries.
const (
	WeeklyWindow  = 7 * 24 * time.Hour
	MonthlyWindow = 30 * 24 * time.Hour
)

// FilterSince returns contributions whose timestamp is at or after since,
// optionally restricted to one user (empty userID matches everyone). There
// is no upper bound: future-dated records pass through, matching how the
// weekly and monthly views have always behaved. Records with unparseable
// timestamps are excluded.
func FilterSince(contribs []store.Contribution, since time.Time, userID string) []store.Contribution {
	var out []store.Contribution
	for _, c := range contribs {
		if userID != "" && c.UserID != userID {
			continue
		}
		ts, err := time.Parse(time.RFC3339, c.Timestamp)
		if err != nil {
			continue
		}
		if !ts.Before(since) {
			out = append(out, c)
		}
	}
	return out
}

// SumByCategory sums contribution weights grouped by category. Categories
// with no contributions are absent from the result rather than present
// with zero. The result is independent of input ordering.
func SumByCategory(contribs []store.Contribution) map[waste.Category]float64 {
	sums := make(map[waste.Category]float64)
	for _, c := range contribs {
		sums[c.Category] += c.WeightKg
	}
	return sums
}

// TotalWeight returns the summed weight of all contributions, 0 for none.
func TotalWeight(contribs []store.Contribution) float64 {
	var total float64
	for _, c := range contribs {
		total += c.WeightKg
	}
	return total
}
