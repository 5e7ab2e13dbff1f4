package recommend

import (
	"math/rand"
	"sort"

	"github.com/FACorreiaa/pickmybite/internal/types"
)

// FilterPlaces drops places that are not operational, rate below minRating
// (no rating counts as 0), or fall outside the requested budgets. An empty
// budgets slice matches every price tier. Input order is preserved.
func FilterPlaces(places []types.PlaceRecord, budgets []string, minRating float64) []types.PlaceRecord {
	budgetSet := make(map[string]struct{}, len(budgets))
	for _, b := range budgets {
		budgetSet[b] = struct{}{}
	}

	out := make([]types.PlaceRecord, 0, len(places))
	for _, p := range places {
		if p.BusinessStatus != types.BusinessStatusOperational {
			continue
		}
		if p.Rating < minRating {
			continue
		}
		if len(budgetSet) > 0 {
			if _, ok := budgetSet[p.PriceTier()]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// RankPlaces orders candidates for selection: places the user has not visited
// come first, then (when the user asked for specific cuisines) places
// matching more of those cuisines. The sort is stable so equal-key candidates
// keep the provider's popularity order. Name collisions across distinct
// venues count as visited; that false positive is accepted.
func RankPlaces(places []types.PlaceRecord, visitedNames map[string]struct{}, preferredTypes []string) []types.PlaceRecord {
	preferred := make(map[string]struct{}, len(preferredTypes))
	for _, t := range preferredTypes {
		preferred[t] = struct{}{}
	}

	typeMatches := func(p types.PlaceRecord) int {
		if len(preferred) == 0 {
			return 0
		}
		n := 0
		for _, t := range p.Types {
			if _, ok := preferred[t]; ok {
				n++
			}
		}
		return n
	}

	ranked := append([]types.PlaceRecord(nil), places...)
	sort.SliceStable(ranked, func(i, j int) bool {
		_, iVisited := visitedNames[ranked[i].Name()]
		_, jVisited := visitedNames[ranked[j].Name()]
		if iVisited != jVisited {
			return !iVisited
		}
		return typeMatches(ranked[i]) > typeMatches(ranked[j])
	})
	return ranked
}

// SampleTopN takes the first min(topN, len) ranked candidates, shuffles them
// when there are more than two, and returns the first pick of the result.
// With two or fewer candidates the existing order is returned verbatim.
// The input slice is never modified.
func SampleTopN(ranked []types.PlaceRecord, topN, pick int, rng *rand.Rand) []types.PlaceRecord {
	if topN > len(ranked) {
		topN = len(ranked)
	}
	top := append([]types.PlaceRecord(nil), ranked[:topN]...)
	if len(top) > 2 {
		rng.Shuffle(len(top), func(i, j int) {
			top[i], top[j] = top[j], top[i]
		})
	}
	if pick > len(top) {
		pick = len(top)
	}
	return top[:pick]
}
