package mapping

// HeuristicScore wraps a ScoreFunc with optional short-circuit heuristics
// (which can force a score outright) and alias heuristics (which propose
// an alternate spelling to score in addition to the original pair, with a
// small penalty per alias heuristic position so that ties between aliases
// favor the one registered earlier). Grounded on mapping/_heuristic_score.HeuristicScore in
// the original implementation.
type HeuristicScore[V, C comparable] struct {
	inner         ScoreFunc[V, C]
	shortCircuits []ShortCircuitHeuristic[V, C]
	aliases       []AliasHeuristic[V, C]

	// PositionalPenalty is subtracted from an alias match's score, scaled
	// by the alias heuristic's position within the registered heuristics
	// list, so that ties between heuristics favor the one registered
	// earlier. Default 0.005, per spec.md's mapping heuristics.
	PositionalPenalty float64
}

// NewHeuristicScore wraps inner, defaulting PositionalPenalty to 0.005.
func NewHeuristicScore[V, C comparable](inner ScoreFunc[V, C]) *HeuristicScore[V, C] {
	return &HeuristicScore[V, C]{inner: inner, PositionalPenalty: 0.005}
}

// WithShortCircuit registers short-circuit heuristics, evaluated in order;
// the first one to return ok=true wins.
func (h *HeuristicScore[V, C]) WithShortCircuit(fns ...ShortCircuitHeuristic[V, C]) *HeuristicScore[V, C] {
	h.shortCircuits = append(h.shortCircuits, fns...)
	return h
}

// WithAlias registers alias heuristics, each tried independently; the
// best-scoring alias (after the positional penalty) wins if it beats the
// unaliased score.
func (h *HeuristicScore[V, C]) WithAlias(fns ...AliasHeuristic[V, C]) *HeuristicScore[V, C] {
	h.aliases = append(h.aliases, fns...)
	return h
}

// Score computes the final score for (value, candidate), where position is
// the candidate's index within the full candidate list, passed through to
// inner (some score functions, like ModifiedHamming, apply their own
// positional penalty).
func (h *HeuristicScore[V, C]) Score(value V, candidate C, position int) float64 {
	for _, sc := range h.shortCircuits {
		if score, ok := sc(value, candidate); ok {
			return score
		}
	}

	best := h.inner(value, candidate, position)
	for i, alias := range h.aliases {
		av, ac, ok := alias(value, candidate)
		if !ok {
			continue
		}
		s := h.inner(av, ac, position) - h.PositionalPenalty*float64(i)
		if s > best {
			best = s
		}
	}
	return best
}

// Fill scores every (value, candidate) pair of matrix using h, and any
// registered FilterFuncs: a pair any filter rejects is left at -Inf.
// context names the source the candidates belong to.
func Fill[V, C comparable](matrix *ScoreMatrix[V, C], h *HeuristicScore[V, C], context string, filters ...FilterFunc[V, C]) {
	candidates := matrix.Candidates()
	for _, value := range matrix.Values() {
		for pos, candidate := range candidates {
			filtered := false
			for _, f := range filters {
				if !f(value, candidate, context) {
					filtered = true
					break
				}
			}
			if filtered {
				continue
			}
			matrix.Set(value, candidate, h.Score(value, candidate, pos))
		}
	}
}
