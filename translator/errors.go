package translator

import "fmt"

// MissingNamesError reports that names were not given and could not be
// derived from the translatable value (it carries no names of its own,
// e.g. a bare slice or scalar). Grounded on
// exceptions.MissingNamesError in the original implementation.
type MissingNamesError struct {
	TypeName string
}

func (e *MissingNamesError) Error() string {
	return fmt.Sprintf("translator: names not given and cannot be derived from type %s", e.TypeName)
}

// TooManyFailedTranslationsError reports that the fraction of values left
// untranslated exceeded the caller's MaximalUntranslatedFraction. Grounded
// on exceptions.TooManyFailedTranslationsError in the original
// implementation.
type TooManyFailedTranslationsError struct {
	Name               string
	Source             string
	UntranslatedCount  int
	TotalCount         int
	MaxFraction        float64
}

func (e *TooManyFailedTranslationsError) Error() string {
	fraction := 0.0
	if e.TotalCount > 0 {
		fraction = float64(e.UntranslatedCount) / float64(e.TotalCount)
	}
	return fmt.Sprintf(
		"translator: %d/%d (%.1f%%) values of %q (source %q) could not be translated, exceeding the maximum allowed fraction of %.1f%%",
		e.UntranslatedCount, e.TotalCount, fraction*100, e.Name, e.Source, e.MaxFraction*100,
	)
}
