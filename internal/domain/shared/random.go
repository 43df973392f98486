package shared

import "math/rand/v2"

// Weighted pairs a selectable item with its (relative) probability weight
type Weighted[T any] struct {
	Item   T
	Weight float64
}

// PickWeighted draws one item with probability proportional to its weight.
// Items with a non-positive weight are never selected. Returns false when
// nothing is selectable.
//
// Slice order is preserved when building the cumulative weights so a seeded
// generator gives reproducible draws.
func PickWeighted[T any](rng *rand.Rand, items []Weighted[T]) (T, bool) {
	var zero T
	cumulative := make([]float64, len(items))
	total := 0.0
	for i, it := range items {
		if it.Weight > 0 {
			total += it.Weight
		}
		cumulative[i] = total
	}
	if total <= 0 {
		return zero, false
	}

	draw := rng.Float64() * total
	for i, bound := range cumulative {
		if draw < bound && items[i].Weight > 0 {
			return items[i].Item, true
		}
	}

	// Float rounding can leave draw == total; fall back to the last positive entry
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Weight > 0 {
			return items[i].Item, true
		}
	}
	return zero, false
}

// Chance returns true with the given probability in [0, 1]
func Chance(rng *rand.Rand, probability float64) bool {
	if probability <= 0 {
		return false
	}
	if probability >= 1 {
		return true
	}
	return rng.Float64() < probability
}

// NewRand creates a seeded generator; seed 0 yields a fixed default stream
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
