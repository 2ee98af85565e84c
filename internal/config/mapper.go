// Package config decodes an already-parsed configuration document (for
// example the result of unmarshalling a YAML or TOML file into a
// map[string]any) into the typed knobs that build a mapping.Mapper,
// fetching.AbstractFetcher and translator.Translator. Loading the document
// itself — finding the file, resolving environment-variable
// interpolation — is left to the caller; this package only decodes and
// builds. Grounded on toml/_factory.py and toml/factories/*.py in the
// original implementation, adapted from file-loading TOML config to
// decoding an already-parsed document via mapstructure.
package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/leapstack-labs/id-translation/idtype"
	"github.com/leapstack-labs/id-translation/mapping"
)

// FunctionEntry names a registered mapping function and carries any extra
// keyword-style parameters it needs, mirroring a TOML sub-table such as
// [mapping.score_function_heuristics] function = "short_circuit".
type FunctionEntry struct {
	Function string         `mapstructure:"function"`
	Params   map[string]any `mapstructure:",remain"`
}

// MapperConfig is the decoded form of a [mapping] (or [fetching.mapper])
// configuration section. Grounded on
// toml/factories/_mapper.default_mapper_factory.
type MapperConfig struct {
	// ScoreFunction names exactly one built-in score function and its
	// kwargs, e.g. {"modified_hamming": {"add_length_ratio_term": true}}.
	ScoreFunction map[string]map[string]any `mapstructure:"score_function"`

	ScoreFunctionHeuristics []FunctionEntry `mapstructure:"score_function_heuristics"`
	FilterFunctions         []FunctionEntry `mapstructure:"filter_functions"`

	// Overrides holds both context-independent entries (value -> string)
	// and context-sensitive ones (value -> {context: candidate}); see
	// splitOverrides.
	Overrides map[string]any `mapstructure:"overrides"`

	MinScore              *float64 `mapstructure:"min_score"`
	Cardinality           string   `mapstructure:"cardinality"`
	OnUnmapped            string   `mapstructure:"on_unmapped"`
	OnUnknownUserOverride string   `mapstructure:"on_unknown_user_override"`
	Verbose               bool     `mapstructure:"verbose"`
}

// DecodeMapperConfig decodes raw (already-parsed document content, e.g. the
// "mapping" table of a larger document) into a MapperConfig.
func DecodeMapperConfig(raw map[string]any) (*MapperConfig, error) {
	var cfg MapperConfig
	if err := decodeStrict(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode mapper config: %w", err)
	}
	return &cfg, nil
}

func decodeStrict(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Build constructs a Mapper[string, string] from c. forFetcher selects
// whether context-sensitive overrides (only meaningful for placeholder
// name -> source column mapping within a single source) are permitted;
// name-to-source mapping has no "context" to key them on. Grounded on
// toml/factories/_mapper.default_mapper_factory.
func (c *MapperConfig) Build(forFetcher bool) (*mapping.Mapper[string, string], error) {
	score, err := c.buildScoreFunc()
	if err != nil {
		return nil, err
	}

	hs := mapping.NewHeuristicScore[string, string](score)
	for _, h := range c.ScoreFunctionHeuristics {
		if err := applyHeuristic(hs, h); err != nil {
			return nil, err
		}
	}

	m := mapping.NewMapper[string, string](hs)

	for _, f := range c.FilterFunctions {
		filter, err := buildFilter(f)
		if err != nil {
			return nil, err
		}
		m.Filters = append(m.Filters, filter)
	}

	if c.MinScore != nil {
		m.MinScore = *c.MinScore
	}
	if c.Cardinality != "" {
		card, err := idtype.ParseCardinality(c.Cardinality)
		if err != nil {
			return nil, fmt.Errorf("config: mapper cardinality: %w", err)
		}
		m.Cardinality = card
	}
	if c.OnUnmapped != "" {
		m.OnUnmapped = mapping.OnUnmapped(c.OnUnmapped)
	}
	if c.OnUnknownUserOverride != "" {
		m.OnUnknownUserOverride = mapping.OnUnknownUserOverride(c.OnUnknownUserOverride)
	}
	m.VerboseLogging = c.Verbose

	if len(c.Overrides) > 0 {
		overrides, err := c.buildOverrides(forFetcher)
		if err != nil {
			return nil, err
		}
		m.Overrides = overrides
	}

	return m, nil
}

func (c *MapperConfig) buildScoreFunc() (mapping.ScoreFunc[string, string], error) {
	// buildScoreFunc is split out so Build can wrap it in a HeuristicScore
	// regardless of whether ScoreFunction was set; with no configured score
	// function it returns Equality.
	if len(c.ScoreFunction) == 0 {
		return mapping.Equality[string], nil
	}
	if len(c.ScoreFunction) > 1 {
		return nil, fmt.Errorf("config: at most one score_function may be given, got %d", len(c.ScoreFunction))
	}

	for name, params := range c.ScoreFunction {
		switch name {
		case "equality":
			return mapping.Equality[string], nil
		case "modified_hamming":
			addRatio := boolParam(params, "add_length_ratio_term", true)
			return mapping.ModifiedHamming(addRatio), nil
		case "disabled":
			strict := boolParam(params, "strict", true)
			return mapping.Disabled(strict), nil
		}
		// Not one of the built-ins with configurable kwargs; fall back to
		// whatever a caller registered by this name (params are ignored,
		// since a user-registered ScoreFunc takes no kwargs of its own).
		if fn, ok := mapping.DefaultRegistry.Score(name); ok {
			return fn, nil
		}
		return nil, fmt.Errorf("config: unknown score_function %q", name)
	}
	panic("unreachable")
}

func applyHeuristic(hs *mapping.HeuristicScore[string, string], h FunctionEntry) error {
	switch h.Function {
	case "force_lower_case":
		hs.WithAlias(mapping.ForceLowerCase)
	case "normalize_width":
		hs.WithAlias(mapping.NormalizeWidth)
	case "like_database_table_plural", "like_database_table":
		hs.WithAlias(mapping.LikeDatabaseTablePlural)
	case "short_circuit":
		sc, err := mapping.ShortCircuitTo(stringParam(h.Params, "value_regex"), stringParam(h.Params, "target_candidate"))
		if err != nil {
			return err
		}
		hs.WithShortCircuit(sc)
	case "value_fstring_alias":
		alias, err := mapping.ValueFstringAlias(
			stringParam(h.Params, "fstring"),
			stringParam(h.Params, "for_value"),
			stringMapParam(h.Params, "kwargs"),
		)
		if err != nil {
			return err
		}
		hs.WithAlias(alias)
	case "candidate_fstring_alias":
		alias, err := mapping.CandidateFstringAlias(stringParam(h.Params, "fstring"), stringMapParam(h.Params, "kwargs"))
		if err != nil {
			return err
		}
		hs.WithAlias(alias)
	default:
		return fmt.Errorf("config: unknown score_function_heuristics function %q", h.Function)
	}
	return nil
}

func buildFilter(f FunctionEntry) (mapping.FilterFunc[string, string], error) {
	switch f.Function {
	case "filter_names":
		return mapping.FilterNames(stringParam(f.Params, "pattern"), boolParam(f.Params, "remove", false))
	case "filter_sources":
		return mapping.FilterSources(stringParam(f.Params, "pattern"), boolParam(f.Params, "remove", false))
	case "filter_placeholders":
		return mapping.FilterPlaceholders(stringParam(f.Params, "pattern"), boolParam(f.Params, "remove", false))
	case "banned_substring":
		return mapping.BannedSubstring(stringSliceParam(f.Params, "substrings")...), nil
	default:
		return nil, fmt.Errorf("config: unknown filter_functions function %q", f.Function)
	}
}

// buildOverrides splits c.Overrides into context-independent and
// context-sensitive entries: a value whose configured candidate is itself
// a table (map) is context-sensitive (keyed by source name); anything else
// is a plain default. Grounded on toml/factories/_mapper._split_overrides.
func (c *MapperConfig) buildOverrides(forFetcher bool) (*mapping.Overrides[string, string], error) {
	def := map[string]string{}
	byContext := map[string]map[string]string{}

	for value, raw := range c.Overrides {
		switch v := raw.(type) {
		case map[string]any:
			if !forFetcher {
				return nil, fmt.Errorf("config: context-sensitive override for %q is not valid for name-to-source mapping", value)
			}
			for ctx, candidate := range v {
				s, ok := candidate.(string)
				if !ok {
					return nil, fmt.Errorf("config: override %q.%q: expected a string candidate, got %T", value, ctx, candidate)
				}
				if byContext[ctx] == nil {
					byContext[ctx] = map[string]string{}
				}
				byContext[ctx][value] = s
			}
		case string:
			def[value] = v
		default:
			return nil, fmt.Errorf("config: override %q: expected a string or table, got %T", value, raw)
		}
	}

	ov := &mapping.Overrides[string, string]{Default: def}
	if len(byContext) > 0 {
		ov.ByContext = byContext
	}
	return ov, nil
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func boolParam(params map[string]any, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

func stringSliceParam(params map[string]any, key string) []string {
	raw, ok := params[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringMapParam(params map[string]any, key string) map[string]string {
	raw, ok := params[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
