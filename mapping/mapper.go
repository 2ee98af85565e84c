package mapping

import (
	"log/slog"
	"math"

	"github.com/leapstack-labs/id-translation/idtype"
)

var (
	posInf = math.Inf(1)
	negInf = math.Inf(-1)
)

// OnUnmapped controls what happens when Apply leaves one or more values
// unmatched. Grounded on mapping._mapper.OnUnmapped in the original
// implementation.
type OnUnmapped string

const (
	OnUnmappedIgnore OnUnmapped = "ignore"
	OnUnmappedWarn   OnUnmapped = "warn"
	OnUnmappedRaise  OnUnmapped = "raise"
)

// OnUnknownUserOverride controls what happens when an OverrideFunc returns a
// candidate that was not among those offered to it. Grounded on
// mapping._mapper.OnUnknownUserOverride in the original implementation.
type OnUnknownUserOverride string

const (
	OnUnknownUserOverrideRaise OnUnknownUserOverride = "raise"
	OnUnknownUserOverrideWarn  OnUnknownUserOverride = "warn"
	OnUnknownUserOverrideKeep  OnUnknownUserOverride = "keep"
)

// UnmappedValuesError reports that one or more values could not be matched
// to any candidate and OnUnmapped is OnUnmappedRaise.
type UnmappedValuesError struct{ Msg string }

func (e *UnmappedValuesError) Error() string { return e.Msg }

// UserMappingError reports that an OverrideFunc returned a candidate that
// was not offered to it, and OnUnknownUserOverride is
// OnUnknownUserOverrideRaise.
type UserMappingError struct {
	Msg   string
	Value any
}

func (e *UserMappingError) Error() string { return e.Msg }

// MappingError reports a configuration error discovered at apply time, such
// as a missing context for context-sensitive overrides.
type MappingError struct{ Msg string }

func (e *MappingError) Error() string { return e.Msg }

// OverrideFunc lets a caller supply overrides computed at apply time
// instead of (or in addition to) the Mapper's static Overrides. Returning
// ok=false defers to the regular scoring and static-override logic.
// Grounded on mapping._mapper.UserOverrideFunction in the original
// implementation.
type OverrideFunc[V, C comparable] func(value V, candidates map[C]struct{}, context string) (candidate C, ok bool)

// Overrides holds static value-to-candidate shortcuts that bypass scoring
// entirely. Default applies regardless of context; ByContext entries take
// precedence over Default for that context, a simplified form of
// rics.collections.dicts.InheritedKeysDict as used by the original Mapper's
// overrides parameter. If ByContext is non-empty, Apply requires a
// non-empty context argument.
type Overrides[V, C comparable] struct {
	Default   map[V]C
	ByContext map[string]map[V]C
}

func (o *Overrides[V, C]) requiresContext() bool {
	return o != nil && len(o.ByContext) > 0
}

func (o *Overrides[V, C]) resolve(context string) map[V]C {
	if o == nil {
		return nil
	}
	out := map[V]C{}
	for k, v := range o.Default {
		out[k] = v
	}
	if context != "" {
		for k, v := range o.ByContext[context] {
			out[k] = v
		}
	}
	return out
}

// Mapper matches a set of values to a set of candidates by score, honoring
// overrides and filters, then selects a DirectionalMapping under a
// Cardinality constraint. Grounded on mapping._mapper.Mapper in the
// original implementation.
type Mapper[V, C comparable] struct {
	Score    *HeuristicScore[V, C]
	Filters  []FilterFunc[V, C]
	MinScore float64

	Overrides             *Overrides[V, C]
	OnUnmapped            OnUnmapped
	OnUnknownUserOverride OnUnknownUserOverride
	Cardinality           idtype.Cardinality

	// Identity reports whether value and candidate name the same thing,
	// e.g. a placeholder that exactly matches a column name. When set, an
	// identity match always scores +Inf and every other candidate for
	// that value scores -Inf, bypassing Score entirely — even a Disabled
	// score function still matches an identical name. Nil (the default)
	// disables this short-circuit, relying on Score and Overrides alone.
	// Grounded on the "value in filtered_candidates" identity check in
	// mapping._mapper.Mapper.compute_scores in the original implementation.
	Identity func(value V, candidate C) bool

	// VerboseLogging also collects below-threshold records in the
	// ScoreHelper returned from ApplyVerbose, so a caller can Explain why
	// a value failed to map. Costs extra memory and time; off by default.
	VerboseLogging bool

	Logger *slog.Logger
}

// NewMapper creates a Mapper with the original implementation's defaults:
// MinScore 0.90, OnUnmapped "ignore", OnUnknownUserOverride "raise",
// Cardinality ManyToOne.
func NewMapper[V, C comparable](score *HeuristicScore[V, C]) *Mapper[V, C] {
	return &Mapper[V, C]{
		Score:                 score,
		MinScore:              0.90,
		OnUnmapped:            OnUnmappedIgnore,
		OnUnknownUserOverride: OnUnknownUserOverrideRaise,
		Cardinality:           idtype.ManyToOne,
		Logger:                slog.Default(),
	}
}

// NewStringMapper is NewMapper for the common V=C=string case, with
// Identity set to plain string equality.
func NewStringMapper(score *HeuristicScore[string, string]) *Mapper[string, string] {
	m := NewMapper(score)
	m.Identity = func(value, candidate string) bool { return value == candidate }
	return m
}

// Apply matches values against candidates in context and returns the
// resulting DirectionalMapping. Equivalent to calling ApplyVerbose and
// discarding the ScoreHelper.
func (m *Mapper[V, C]) Apply(values []V, candidates []C, context string, override OverrideFunc[V, C]) (*DirectionalMapping[V, C], error) {
	dm, _, err := m.ApplyVerbose(values, candidates, context, override)
	return dm, err
}

// ApplyVerbose is Apply, additionally returning the ScoreHelper used to pick
// the match so a caller can call Explain for values that failed to map.
// Grounded on mapping._mapper.Mapper.apply in the original implementation.
func (m *Mapper[V, C]) ApplyVerbose(values []V, candidates []C, context string, override OverrideFunc[V, C]) (*DirectionalMapping[V, C], *ScoreHelper[V, C], error) {
	logger := m.logger()

	if len(values) == 0 || len(candidates) == 0 {
		logger.Debug("aborting mapping: values or candidates empty", "context", context, "num_values", len(values), "num_candidates", len(candidates))
		return NewDirectionalMapping[V, C](m.Cardinality, map[V][]C{}, nil), nil, nil
	}

	candidateSet := map[C]struct{}{}
	orderedCandidates := dedupPreserveOrder(candidates)
	for _, c := range orderedCandidates {
		candidateSet[c] = struct{}{}
	}
	orderedValues := dedupPreserveOrder(values)

	matrix := NewScoreMatrix[V, C](orderedValues, orderedCandidates)

	applied, remaining, err := m.handleOverrides(matrix, orderedValues, candidateSet, context, override)
	if err != nil {
		return nil, nil, err
	}

	for _, value := range remaining {
		filtered := m.filterCandidates(value, orderedCandidates, context)
		if len(filtered) == 0 {
			continue
		}

		isIdentityMatch := false
		if m.Identity != nil {
			for _, candidate := range filtered {
				if m.Identity(value, candidate) {
					isIdentityMatch = true
					break
				}
			}
		}

		for pos, candidate := range filtered {
			switch {
			case isIdentityMatch && m.Identity(value, candidate):
				matrix.Set(value, candidate, posInf)
			case isIdentityMatch:
				matrix.Set(value, candidate, negInf)
			default:
				matrix.Set(value, candidate, m.Score.Score(value, candidate, pos))
			}
		}
	}

	helper := NewScoreHelper[V, C](matrix, m.MinScore)
	helper.Verbose = m.VerboseLogging
	dm, err := helper.ToDirectionalMapping(m.Cardinality)
	if err != nil {
		return nil, nil, err
	}

	unmapped := make([]V, 0, len(orderedValues))
	for _, v := range orderedValues {
		if _, ok := applied[v]; ok {
			continue
		}
		if _, ok := dm.Candidates(v); ok {
			continue
		}
		unmapped = append(unmapped, v)
	}
	if len(unmapped) > 0 {
		if err := m.reportUnmapped(unmapped, candidateSet, context); err != nil {
			return nil, nil, err
		}
	}

	logger.Debug("mapping completed", "context", context, "num_values", len(orderedValues), "num_matched", dm.Len())
	return dm, helper, nil
}

func (m *Mapper[V, C]) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

func (m *Mapper[V, C]) reportUnmapped(unmapped []V, candidates map[C]struct{}, context string) error {
	logger := m.logger()
	switch m.OnUnmapped {
	case OnUnmappedRaise:
		msg := "mapping: could not map values to any candidate"
		if context != "" {
			msg += " in context " + context
		}
		logger.Error(msg, "unmapped", unmapped, "candidates", candidates)
		return &UnmappedValuesError{Msg: msg}
	case OnUnmappedWarn:
		logger.Warn("could not map all values to a candidate", "unmapped", unmapped, "context", context)
	default:
		logger.Debug("could not map all values to a candidate", "unmapped", unmapped, "context", context)
	}
	return nil
}

// handleOverrides applies the Mapper's OverrideFunc (if any) and then its
// static Overrides, returning the values that matched an override and the
// values still needing ordinary scoring. Grounded on
// mapping._mapper.Mapper._handle_overrides in the original implementation.
func (m *Mapper[V, C]) handleOverrides(matrix *ScoreMatrix[V, C], values []V, candidates map[C]struct{}, context string, override OverrideFunc[V, C]) (map[V]C, []V, error) {
	applied := map[V]C{}
	remaining := make([]V, 0, len(values))
	isRemaining := map[V]bool{}
	for _, v := range values {
		isRemaining[v] = true
	}

	apply := func(value V, candidate C) {
		matrix.Set(value, candidate, posInf)
		applied[value] = candidate
		isRemaining[value] = false
	}

	if override != nil {
		for _, value := range values {
			if !isRemaining[value] {
				continue
			}
			candidate, ok := override(value, candidates, context)
			if !ok {
				continue
			}
			if _, known := candidates[candidate]; !known && m.OnUnknownUserOverride != OnUnknownUserOverrideKeep {
				msg := "mapping: override function returned an unknown candidate"
				if m.OnUnknownUserOverride == OnUnknownUserOverrideRaise {
					m.logger().Error(msg, "value", value, "candidate", candidate)
					return nil, nil, &UserMappingError{Msg: msg, Value: value}
				}
				m.logger().Warn(msg, "value", value, "candidate", candidate)
				continue
			}
			m.logger().Debug("applying override function result", "value", value, "candidate", candidate)
			apply(value, candidate)
		}
	}

	if m.Overrides.requiresContext() && context == "" {
		return nil, nil, &MappingError{Msg: "mapping: must pass a context when using context-sensitive overrides"}
	}
	for value, candidate := range m.Overrides.resolve(context) {
		if !isRemaining[value] {
			continue
		}
		apply(value, candidate)
	}

	for _, v := range values {
		if isRemaining[v] {
			remaining = append(remaining, v)
		}
	}
	return applied, remaining, nil
}

// filterCandidates returns the candidates that survive every registered
// filter for (value, context), in their original order.
func (m *Mapper[V, C]) filterCandidates(value V, candidates []C, context string) []C {
	if len(m.Filters) == 0 {
		return candidates
	}
	out := make([]C, 0, len(candidates))
	for _, c := range candidates {
		keep := true
		for _, f := range m.Filters {
			if !f(value, c, context) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	return out
}

func dedupPreserveOrder[T comparable](items []T) []T {
	seen := map[T]struct{}{}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
