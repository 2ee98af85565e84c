package translation

import (
	"fmt"

	"github.com/leapstack-labs/id-translation/format"
)

// Apply compiles fmtSpec against one source's fetched records and renders
// every record into a MagicDict entry.
//
// globalDefaults supplies placeholder values that are not actually columns
// of pt (e.g. a literal environment name baked into every translation);
// they are substituted into fmtSpec via format.Format.Partial before
// compiling, and only for placeholder names pt does not itself provide, so
// a source-specific column always takes precedence over a global default.
//
// unknownDefaults, if non-nil, seeds a default-value fallback template: an
// id absent from pt.Records still translates, by rendering fmtSpec with
// unknownDefaults (plus the id itself) standing in for every placeholder
// pt doesn't supply. Grounded on offline/_format_applier.FormatApplier in
// the original implementation.
func Apply(fmtSpec *format.Format, pt PlaceholderTranslations, globalDefaults, unknownDefaults map[string]string) (*MagicDict, error) {
	idCol := pt.IDColumnIndex()
	if idCol == -1 {
		return nil, &MissingIDPlaceholderError{Source: pt.Source, IDPlaceholder: pt.IDPlaceholder, Placeholders: pt.Placeholders}
	}

	available := pt.AvailableSet()

	effective := fmtSpec
	if toSubstitute := pickUnavailable(globalDefaults, available); len(toSubstitute) > 0 {
		effective = effective.Partial(toSubstitute)
	}

	compiled, err := effective.Compile(available)
	if err != nil {
		return nil, fmt.Errorf("translation: source %q: %w", pt.Source, err)
	}

	builder := NewMagicDictBuilder(pt.Source)
	for row := range pt.Records {
		rendered := compiled.Render(pt.RecordValues(row))
		id := pt.Identifier(row, idCol)
		if err := builder.Put(id, rendered); err != nil {
			return nil, err
		}
	}

	var fallback *format.Compiled
	var fallbackValues map[string]string
	if unknownDefaults != nil {
		fallbackAvailable := map[string]struct{}{pt.IDPlaceholder: {}}
		fallbackValues = make(map[string]string, len(unknownDefaults)+len(globalDefaults))
		for k, v := range globalDefaults {
			fallbackValues[k] = v
			fallbackAvailable[k] = struct{}{}
		}
		for k, v := range unknownDefaults {
			fallbackValues[k] = v
			fallbackAvailable[k] = struct{}{}
		}
		if compiledFallback, err := fmtSpec.Compile(fallbackAvailable); err == nil {
			fallback = compiledFallback
		}
		// A fallback that still can't compile (missing a required
		// placeholder neither fetched nor defaulted) is silently
		// dropped: unmapped ids simply report not-found instead.
	}

	return builder.Build(fallback, fallbackValues, pt.IDPlaceholder), nil
}

func pickUnavailable(defaults map[string]string, available map[string]struct{}) map[string]string {
	if len(defaults) == 0 {
		return nil
	}
	out := make(map[string]string, len(defaults))
	for k, v := range defaults {
		if _, ok := available[k]; !ok {
			out[k] = v
		}
	}
	return out
}
