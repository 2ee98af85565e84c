// Package fetching retrieves placeholder translations from external
// sources, maps the placeholders a caller asked for onto the source's
// native column names, and hands the result back as
// translation.PlaceholderTranslations ready for the offline translation
// pipeline. The returned PlaceholderTranslations carries the column names
// the Implementation reports; they are not renamed back to the requested
// placeholder names. Grounded on fetching/_fetcher.py, fetching/_abstract_fetcher.py
// and fetching/_multi_fetcher.py in the original implementation.
package fetching

import (
	"context"

	"github.com/leapstack-labs/id-translation/idtype"
	"github.com/leapstack-labs/id-translation/translation"
)

// IDsToFetch pairs a source with the identifiers to retrieve from it. A nil
// IDs slice means "fetch every id available for this source" (fetch-all).
// Grounded on fetching.types.IdsToFetch.
type IDsToFetch struct {
	Source string
	IDs    []idtype.Identifier
}

// FetchInstruction is the resolved request handed to a concrete Fetcher's
// FetchTranslations implementation: Placeholders/Required are already
// mapped to the source's native column names. Grounded on
// fetching.types.FetchInstruction.
type FetchInstruction struct {
	Source       string
	IDs          []idtype.Identifier // nil means fetch every id for Source
	Placeholders []string
	Required     []string
}

// IsFetchAll reports whether this instruction asks for every id of Source.
func (fi FetchInstruction) IsFetchAll() bool { return fi.IDs == nil }

// Fetcher retrieves placeholder translations from one external source or a
// group of them. Grounded on fetching._fetcher.Fetcher.
type Fetcher interface {
	// Sources lists every source this Fetcher knows how to serve.
	Sources(ctx context.Context) ([]string, error)
	// Placeholders lists the native placeholder names available for source.
	Placeholders(ctx context.Context, source string) ([]string, error)
	// AllowFetchAll reports whether FetchAll is a permitted operation.
	AllowFetchAll() bool
	// Online reports connectivity; if false, no new translations may be fetched.
	Online() bool
	// Fetch retrieves translations for the given sources and ids.
	Fetch(ctx context.Context, idsToFetch []IDsToFetch, placeholders, required []string) (map[string]*translation.PlaceholderTranslations, error)
	// FetchAll retrieves translations for every id of every known source.
	FetchAll(ctx context.Context, placeholders, required []string) (map[string]*translation.PlaceholderTranslations, error)
	// Close releases any resources held by the Fetcher.
	Close() error
}

// CacheAccess lets an AbstractFetcher consult and populate a cache before
// and after hitting the real backend. Grounded on
// fetching._cache_access.CacheAccess.
type CacheAccess interface {
	Load(ctx context.Context, instr FetchInstruction) (*translation.PlaceholderTranslations, bool, error)
	Store(ctx context.Context, instr FetchInstruction, translations *translation.PlaceholderTranslations) error
}

// SourcePlaceholders names one source and its native placeholders, in
// preferred order. Returned as a slice (rather than a map) so discovery
// order is preserved.
type SourcePlaceholders struct {
	Source       string
	Placeholders []string
}

// Implementation is what a concrete Fetcher backend must supply;
// AbstractFetcher handles placeholder mapping, caching and the fetch-all
// gate around it. Grounded on the abstract methods of
// fetching._abstract_fetcher.AbstractFetcher.
type Implementation interface {
	// InitializeSources discovers every source this backend can serve, and
	// its native placeholder names, in preferred order.
	InitializeSources(ctx context.Context) ([]SourcePlaceholders, error)
	// FetchTranslations executes one already-mapped FetchInstruction.
	FetchTranslations(ctx context.Context, instr FetchInstruction) (*translation.PlaceholderTranslations, error)
}
