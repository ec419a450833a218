// Package detrand provides the stable hash and seeded generator that every
// piece of synthetic data is derived from. Sequences produced here are part of
// the data contract: changing them changes generated rosters and encounters.
package detrand

const (
	hashModulus = 100000

	lehmerModulus    = 2147483647
	lehmerMultiplier = 16807
)

// StableHash folds the code points of s into [0, 100000).
func StableHash(s string) int {
	total := 0
	for _, r := range s {
		total = (total*31 + int(r)) % hashModulus
	}
	return total
}

// RNG is a Park-Miller minimal standard generator. Not safe for concurrent use.
type RNG struct {
	state int64
}

// NewRNG seeds a generator. Seeds that reduce to a non-positive state are
// shifted into range so every seed yields a usable sequence.
func NewRNG(seed int64) *RNG {
	state := seed % lehmerModulus
	if state <= 0 {
		state += lehmerModulus - 1
	}
	if state <= 0 {
		state = 1
	}
	return &RNG{state: state}
}

// Float returns the next value in [0, 1).
func (r *RNG) Float() float64 {
	r.state = r.state * lehmerMultiplier % lehmerModulus
	return float64(r.state-1) / float64(lehmerModulus-1)
}

// Intn returns floor(Float() * n).
func (r *RNG) Intn(n int) int {
	return int(r.Float() * float64(n))
}

// Pick draws one element. An empty list still consumes a draw and yields the
// zero value, keeping the sequence aligned for the caller.
func Pick[T any](r *RNG, list []T) T {
	idx := r.Intn(len(list))
	var zero T
	if idx >= len(list) {
		return zero
	}
	return list[idx]
}

// Weighted is one option of a weighted draw.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// WeightedPick returns the first option whose cumulative weight reaches the
// draw, or the last option when rounding leaves the draw above the total.
func WeightedPick[T any](r *RNG, options []Weighted[T]) T {
	var total float64
	for _, o := range options {
		total += o.Weight
	}
	roll := r.Float() * total
	var acc float64
	for _, o := range options {
		acc += o.Weight
		if roll <= acc {
			return o.Value
		}
	}
	var zero T
	if len(options) == 0 {
		return zero
	}
	return options[len(options)-1].Value
}
