package match

import (
	"cmp"
	"slices"
)

// DefaultThreshold is the minimum similarity for a suggestion.
const DefaultThreshold = 0.6

// DefaultLimit is the maximum number of suggestions returned.
const DefaultLimit = 3

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit candidates whose similarity to name is at
// least threshold, best first. Exact matches are excluded, ties keep the
// candidate order.
func Suggest(name string, candidates []string, threshold float64, limit int) []string {
	var ranked []scored

	for _, c := range candidates {
		if c == name {
			continue
		}

		if s := Similarity(name, c); s >= threshold {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.name)
	}

	return out
}
