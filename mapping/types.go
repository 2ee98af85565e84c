// Package mapping implements name-to-name matching between a set of
// values (e.g. placeholder names a caller wants) and a set of candidates
// (e.g. column names a source actually has): score every pair, then select
// matches under a Cardinality constraint. Grounded on mapping/_mapper.py,
// mapping/matrix/_score_matrix.py and mapping/matrix/_score_helper.py in
// the original implementation.
package mapping

import (
	"sync"

	"github.com/leapstack-labs/id-translation/idtype"
)

// ScoreFunc computes a likeness score for one (value, candidate) pair.
// position is the candidate's index within the full candidate list, so a
// score function may apply its own positional penalty (e.g. ModifiedHamming).
// Higher is better; math.Inf(1)/math.Inf(-1) short-circuit a match as
// accepted/rejected regardless of the configured minimum score.
type ScoreFunc[V, C comparable] func(value V, candidate C, position int) float64

// FilterFunc reports whether a (value, candidate) pair may be scored at
// all. A filter that returns false removes the pair from consideration
// entirely, equivalent to a -Inf score that can never be overridden by a
// heuristic. context is the name of the source the candidates belong to,
// for filters that key off the source rather than the candidate itself
// (e.g. FilterSources).
type FilterFunc[V, C comparable] func(value V, candidate C, context string) bool

// AliasHeuristic proposes an alternate (value, candidate) spelling to try
// scoring in addition to the original pair — e.g. case-folding both sides,
// or expanding "id" to "identifier". ok reports whether the heuristic
// applies to this pair at all.
type AliasHeuristic[V, C comparable] func(value V, candidate C) (aliasValue V, aliasCandidate C, ok bool)

// ShortCircuitHeuristic forces a score for a (value, candidate) pair,
// bypassing the underlying ScoreFunc and any alias heuristics. ok reports
// whether the heuristic has an opinion about this pair.
type ShortCircuitHeuristic[V, C comparable] func(value V, candidate C) (score float64, ok bool)

// DirectionalMapping is the result of matching a set of values to a set of
// candidates under a given Cardinality: each matched value maps to one or
// more candidates, in score order.
type DirectionalMapping[V, C comparable] struct {
	cardinality idtype.Cardinality
	leftToRight map[V][]C
	orderedLeft []V

	inverseOnce sync.Once
	inverse     map[C][]V
}

// NewDirectionalMapping builds a DirectionalMapping from a left-to-right
// match table. valueOrder fixes iteration order for Values.
func NewDirectionalMapping[V, C comparable](cardinality idtype.Cardinality, leftToRight map[V][]C, valueOrder []V) *DirectionalMapping[V, C] {
	return &DirectionalMapping[V, C]{cardinality: cardinality, leftToRight: leftToRight, orderedLeft: valueOrder}
}

// Cardinality returns the constraint the mapping was built under.
func (m *DirectionalMapping[V, C]) Cardinality() idtype.Cardinality { return m.cardinality }

// Candidates returns the candidates matched to value, in score order.
func (m *DirectionalMapping[V, C]) Candidates(value V) ([]C, bool) {
	cs, ok := m.leftToRight[value]
	return cs, ok
}

// Values returns every value that matched at least one candidate, in the
// order first supplied to the matrix.
func (m *DirectionalMapping[V, C]) Values() []V {
	out := make([]V, 0, len(m.orderedLeft))
	for _, v := range m.orderedLeft {
		if _, ok := m.leftToRight[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Len returns the number of matched values.
func (m *DirectionalMapping[V, C]) Len() int { return len(m.leftToRight) }

// Inverse returns the candidate -> values view of this mapping: every
// candidate matched by at least one value, mapped back to the values that
// matched it, in Values order. Built lazily on first call and cached.
// Grounded on spec.md's DirectionalMapping invariant that an inverse view
// is exposed lazily.
func (m *DirectionalMapping[V, C]) Inverse() map[C][]V {
	m.inverseOnce.Do(func() {
		inverse := map[C][]V{}
		for _, v := range m.Values() {
			for _, c := range m.leftToRight[v] {
				inverse[c] = append(inverse[c], v)
			}
		}
		m.inverse = inverse
	})
	return m.inverse
}

// Flatten returns the mapping as (value, candidate) pairs, one per
// matched candidate, in Values order.
func (m *DirectionalMapping[V, C]) Flatten() []struct {
	Value     V
	Candidate C
} {
	var out []struct {
		Value     V
		Candidate C
	}
	for _, v := range m.Values() {
		for _, c := range m.leftToRight[v] {
			out = append(out, struct {
				Value     V
				Candidate C
			}{v, c})
		}
	}
	return out
}
