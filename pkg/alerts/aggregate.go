package alerts

import (
	"sort"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

// Aggregate normalizes every raw label, accumulates occurrence counts per
// normalized label, and returns the result sorted by count descending.
// Labels with equal counts keep the order in which they were first seen;
// callers rely on that stability for top-N slicing. Pure function.
func Aggregate(raws []string) []domain.AggregatedAlert {
	counts := make(map[string]int, len(raws))
	order := make([]string, 0, len(raws))

	for _, raw := range raws {
		label, mult := Normalize(raw)
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label] += mult
	}

	out := make([]domain.AggregatedAlert, 0, len(order))
	for _, label := range order {
		out = append(out, domain.AggregatedAlert{Label: label, Count: counts[label]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	return out
}
