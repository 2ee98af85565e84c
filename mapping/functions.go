package mapping

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"

	"github.com/leapstack-labs/id-translation/format"
)

// lower is the shared case-folding function used by ForceLowerCase and
// LikeDatabaseTablePlural: golang.org/x/text/cases.Lower applies the full
// Unicode lower-casing algorithm (e.g. İ -> i̇), unlike strings.ToLower's
// simple per-rune mapping, matching Python's locale-aware str.lower() more
// closely than the stdlib alone can.
var lower = cases.Lower(language.Und)

func lowerString(s string) string { return lower.String(s) }

// IDPlaceholder is the reserved placeholder name denoting "the identifier
// column", used by FilterSources to recognize a name-to-source mapping
// pass. Grounded on id_translation.types.ID in the original implementation.
const IDPlaceholder = "id"

// Equality scores 1.0 for an exact match, 0.0 otherwise. position is unused.
// Grounded on mapping/score_functions.equality in the original
// implementation.
func Equality[T comparable](value, candidate T, _ int) float64 {
	if value == candidate {
		return 1.0
	}
	return 0.0
}

// DefaultModifiedHammingPositionalPenalty matches the original
// implementation's modified_hamming default: each step further down the
// candidate list costs the score this much, so ties between otherwise
// identical matches favor the earlier-listed candidate.
const DefaultModifiedHammingPositionalPenalty = 0.001

// ModifiedHamming scores two strings by hamming distance from the back,
// optionally penalized by their length ratio, minus a small penalty scaled
// by the candidate's position in the list. Score range is [0, 1] before the
// positional penalty is applied. positionalPenalty overrides
// DefaultModifiedHammingPositionalPenalty if given. Grounded on
// mapping/score_functions.modified_hamming in the original implementation.
func ModifiedHamming(addLengthRatioTerm bool, positionalPenalty ...float64) ScoreFunc[string, string] {
	penalty := DefaultModifiedHammingPositionalPenalty
	if len(positionalPenalty) > 0 {
		penalty = positionalPenalty[0]
	}
	return func(name, candidate string, position int) float64 {
		sz := len(candidate)
		if len(name) < sz {
			sz = len(name)
		}
		if sz == 0 {
			return 0 - penalty*float64(position)
		}
		same := 0
		for i := 1; i <= sz; i++ {
			if name[len(name)-i] == candidate[len(candidate)-i] {
				same++
			}
		}
		ratio := 1.0
		if addLengthRatioTerm {
			ratio = 1.0 / (1.0 + math.Abs(float64(len(candidate)-len(name))))
		}
		return ratio*float64(same)/float64(sz) - penalty*float64(position)
	}
}

// ScoringDisabledError reports that Disabled was invoked in strict mode:
// the mapper was configured to rely entirely on overrides, but a pair fell
// through to the scoring function anyway.
type ScoringDisabledError struct {
	Value     string
	Candidate string
}

func (e *ScoringDisabledError) Error() string {
	return fmt.Sprintf("mapping: scoring is disabled, but %q was scored against %q with no override", e.Value, e.Candidate)
}

// Disabled is a sentinel ScoreFunc for override-only mapping: it marks
// intent rather than performing real scoring. In strict mode (the
// default) it panics with a *ScoringDisabledError if ever actually
// invoked, since a correctly configured override-only Mapper should never
// fall through to it. Non-strict mode returns -Inf, acting as a catch-all
// rejection filter instead. Grounded on mapping/score_functions.disabled.
func Disabled(strict bool) ScoreFunc[string, string] {
	return func(value, candidate string, _ int) float64 {
		if strict {
			panic(&ScoringDisabledError{Value: value, Candidate: candidate})
		}
		return math.Inf(-1)
	}
}

func compileAnchored(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)^(?:" + pattern + ")")
}

// FilterNames keeps a (value, candidate) pair only if value matches
// pattern, or discards it if value matches and remove is true. context is
// ignored; this filter is meant for name-to-source mapping passes.
// Grounded on mapping/filter_functions.filter_names.
func FilterNames(pattern string, remove bool) (FilterFunc[string, string], error) {
	re, err := compileAnchored(pattern)
	if err != nil {
		return nil, fmt.Errorf("mapping: FilterNames: %w", err)
	}
	return func(value, _ string, _ string) bool {
		return re.MatchString(value) != remove
	}, nil
}

// FilterSources keeps a source's candidates only if its name (context)
// matches pattern, or discards them if it matches and remove is true. It
// only applies when value is IDPlaceholder, so it never interferes with
// ordinary placeholder-to-column mapping. Grounded on
// mapping/filter_functions.filter_sources.
func FilterSources(pattern string, remove bool) (FilterFunc[string, string], error) {
	re, err := compileAnchored(pattern)
	if err != nil {
		return nil, fmt.Errorf("mapping: FilterSources: %w", err)
	}
	return func(value, _ string, context string) bool {
		if value != IDPlaceholder {
			return true
		}
		return re.MatchString(context) != remove
	}, nil
}

// FilterPlaceholders keeps a candidate placeholder only if its name
// matches pattern, or discards it if it matches and remove is true.
// Grounded on mapping/filter_functions.filter_placeholders.
func FilterPlaceholders(pattern string, remove bool) (FilterFunc[string, string], error) {
	re, err := compileAnchored(pattern)
	if err != nil {
		return nil, fmt.Errorf("mapping: FilterPlaceholders: %w", err)
	}
	return func(_, candidate string, _ string) bool {
		return re.MatchString(candidate) != remove
	}, nil
}

// BannedSubstring discards any candidate containing one of substrings.
// Supplements the original's regex-based filters with a cheaper
// plain-text check for the common "exclude these columns" case.
func BannedSubstring(substrings ...string) FilterFunc[string, string] {
	return func(_, candidate string, _ string) bool {
		for _, s := range substrings {
			if strings.Contains(candidate, s) {
				return false
			}
		}
		return true
	}
}

// ForceLowerCase lower-cases both sides of a pair before scoring. Grounded
// on mapping/heuristic_functions.force_lower_case.
func ForceLowerCase(value, candidate string) (string, string, bool) {
	return lowerString(value), lowerString(candidate), true
}

// NormalizeWidth folds full-width and half-width Unicode variants (common
// in column names exported from East Asian-locale systems) to their
// standard-width form before scoring, so e.g. "ＩＤ" and "ID" compare equal
// under an exact-match score function. Not present in the original
// implementation, which only ever saw ASCII column names; added here
// since golang.org/x/text ships width normalization and a Go port dealing
// with arbitrary source-system column names should not assume ASCII.
func NormalizeWidth(value, candidate string) (string, string, bool) {
	return width.Fold.String(value), width.Fold.String(candidate), true
}

// LikeDatabaseTablePlural tries to make both sides of a pair look like the
// name of a pluralized database table: strips a trailing "id" and
// separators, then pluralizes. Grounded on
// mapping/heuristic_functions.like_database_table.
func LikeDatabaseTablePlural(value, candidate string) (string, string, bool) {
	return likeTable(value), likeTable(candidate), true
}

func likeTable(s string) string {
	s = lowerString(s)
	if s == "id" {
		return "id"
	}
	s = strings.TrimSuffix(s, "id")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, ".", "")
	if s == "" {
		return s
	}
	last := s[len(s)-1]
	switch {
	case last == 's':
		// already plural
	case last == 'x' || last == 'z':
		s += "es"
	case last == 'h' && len(s) > 1 && (s[len(s)-2] == 's' || s[len(s)-2] == 'c'):
		s += "es"
	default:
		s += "s"
	}
	return s
}

// ShortCircuitTo forces an immediate match of candidate == targetCandidate
// whenever value matches valueRegex, bypassing ordinary scoring entirely.
// Grounded on mapping/heuristic_functions.short_circuit.
func ShortCircuitTo(valueRegex, targetCandidate string) (ShortCircuitHeuristic[string, string], error) {
	re, err := compileAnchored(valueRegex)
	if err != nil {
		return nil, fmt.Errorf("mapping: ShortCircuitTo: %w", err)
	}
	return func(value, candidate string) (float64, bool) {
		if candidate != targetCandidate || !re.MatchString(value) {
			return 0, false
		}
		return math.Inf(1), true
	}, nil
}

// ValueFstringAlias renders value (and, if given, extra kwargs) through
// fstring and aliases it against the unmodified candidate. If forValue is
// non-empty, the alias only applies when value == forValue; otherwise
// fstring must reference "{value}". Grounded on
// mapping/heuristic_functions.value_fstring_alias.
func ValueFstringAlias(fstring, forValue string, kwargs map[string]string) (AliasHeuristic[string, string], error) {
	f, err := format.Parse(fstring)
	if err != nil {
		return nil, fmt.Errorf("mapping: ValueFstringAlias: %w", err)
	}
	if forValue == "" && !referencesPlaceholder(f, "value") {
		return nil, fmt.Errorf("mapping: ValueFstringAlias: fstring %q does not reference {value} and forValue is empty", fstring)
	}

	available := map[string]struct{}{"value": {}}
	for k := range kwargs {
		available[k] = struct{}{}
	}
	compiled, err := f.Compile(available)
	if err != nil {
		return nil, fmt.Errorf("mapping: ValueFstringAlias: %w", err)
	}

	return func(value, candidate string) (string, string, bool) {
		if forValue != "" && value != forValue {
			return value, candidate, false
		}
		values := map[string]string{"value": value}
		for k, v := range kwargs {
			values[k] = v
		}
		return compiled.Render(values), candidate, true
	}, nil
}

// CandidateFstringAlias renders candidate (and extra kwargs) through
// fstring and aliases it against the unmodified value. fstring must
// reference "{candidate}". Grounded on
// mapping/heuristic_functions.candidate_fstring_alias.
func CandidateFstringAlias(fstring string, kwargs map[string]string) (AliasHeuristic[string, string], error) {
	f, err := format.Parse(fstring)
	if err != nil {
		return nil, fmt.Errorf("mapping: CandidateFstringAlias: %w", err)
	}
	if !referencesPlaceholder(f, "candidate") {
		return nil, fmt.Errorf("mapping: CandidateFstringAlias: fstring %q does not reference {candidate}", fstring)
	}

	available := map[string]struct{}{"value": {}, "candidate": {}}
	for k := range kwargs {
		available[k] = struct{}{}
	}
	compiled, err := f.Compile(available)
	if err != nil {
		return nil, fmt.Errorf("mapping: CandidateFstringAlias: %w", err)
	}

	return func(value, candidate string) (string, string, bool) {
		values := map[string]string{"value": value, "candidate": candidate}
		for k, v := range kwargs {
			values[k] = v
		}
		return value, compiled.Render(values), true
	}, nil
}

func referencesPlaceholder(f *format.Format, name string) bool {
	for _, p := range f.Placeholders() {
		if p == name {
			return true
		}
	}
	return false
}
