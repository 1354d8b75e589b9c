package generator

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Sampler draws category indexes from an explicit cumulative distribution.
type Sampler struct {
	cumulative []float64
	last       int
	uniform    bool
}

// NewSampler builds a sampler over weights, which must be non-negative and sum to 1.
// Weights are not renormalized.
func NewSampler(weights []float64) (*Sampler, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("no weights provided")
	}
	cumulative := make([]float64, len(weights))
	total := 0.0
	last := -1
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("invalid weight %v at index %d", w, i)
		}
		total += w
		cumulative[i] = total
		if w > 0 {
			last = i
		}
	}
	if math.Abs(total-1) > weightTolerance {
		return nil, fmt.Errorf("%w: got %.6f", ErrWeightSum, total)
	}
	return &Sampler{cumulative: cumulative, last: last}, nil
}

// NewUniformSampler draws each of n categories with equal probability.
func NewUniformSampler(n int) *Sampler {
	return &Sampler{last: n - 1, uniform: true}
}

// Len returns the number of categories.
func (s *Sampler) Len() int {
	if s.uniform {
		return s.last + 1
	}
	return len(s.cumulative)
}

// Draw returns one category index using a single draw from rnd.
func (s *Sampler) Draw(rnd *rand.Rand) int {
	if s.uniform {
		return rnd.Intn(s.last + 1)
	}
	u := rnd.Float64()
	idx := sort.Search(len(s.cumulative), func(i int) bool {
		return s.cumulative[i] > u
	})
	// The cumulative total may land just under 1.
	if idx >= len(s.cumulative) {
		idx = s.last
	}
	return idx
}
