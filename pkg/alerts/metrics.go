package alerts

import (
	"fmt"
	"sort"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

// TotalCount sums the counts of an aggregated alert set.
func TotalCount(set []domain.AggregatedAlert) int {
	var total int
	for i := range set {
		total += set[i].Count
	}
	return total
}

// TopPercentage returns the share of the total count contributed by the
// topN highest-count entries, formatted with exactly two decimal digits.
// The input is re-sorted defensively; the caller's slice is not modified.
// Returns "0.00" for an empty set to avoid dividing by zero.
func TopPercentage(set []domain.AggregatedAlert, topN int) string {
	total := TotalCount(set)
	if total == 0 || topN <= 0 {
		return "0.00"
	}

	sorted := make([]domain.AggregatedAlert, len(set))
	copy(sorted, set)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})

	if topN > len(sorted) {
		topN = len(sorted)
	}

	var top int
	for i := range topN {
		top += sorted[i].Count
	}

	return fmt.Sprintf("%.2f", float64(top)/float64(total)*100)
}
