// Package translator is the caller-facing facade of the module: resolve
// which names in a value translate against which source, fetch those
// sources' translations, and render them back into the caller's own data
// structure. Grounded on _translator.py, _tasks/_map.py and
// _tasks/_translate.py in the original implementation.
package translator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/leapstack-labs/id-translation/dio"
	"github.com/leapstack-labs/id-translation/fetching"
	"github.com/leapstack-labs/id-translation/format"
	"github.com/leapstack-labs/id-translation/idtype"
	"github.com/leapstack-labs/id-translation/internal/idlog"
	"github.com/leapstack-labs/id-translation/mapping"
	"github.com/leapstack-labs/id-translation/translation"
)

// DisabledEnvVar, when set to "true", makes Translate a no-op returning
// the input unchanged. Grounded on _translator.ID_TRANSLATION_DISABLED.
const DisabledEnvVar = "ID_TRANSLATION_DISABLED"

// Names controls which names within a translatable value get translated.
// Grounded on the names/ignore_names parameters of Translator.translate.
type Names struct {
	// Explicit lists the names to translate. If nil and NameToSource is
	// also empty, names are derived from the translatable value itself
	// via its DataStructureIO.
	Explicit []string
	// NameToSource assigns specific names directly to a source, bypassing
	// the name-to-source Mapper for those names.
	NameToSource map[string]string
	// Ignore reports whether a derived or explicit name should be
	// skipped entirely. Nil ignores nothing.
	Ignore func(name string) bool
}

// TranslateOptions controls one Translate call. Grounded on the keyword
// parameters of Translator.translate.
type TranslateOptions struct {
	Names Names
	// Inplace asks the DataStructureIO to mutate translatable and return
	// nil instead of a copy. Every built-in dio adapter rejects this with
	// *dio.NotInPlaceTranslatableError.
	Inplace bool
	// MaximalUntranslatedFraction fails the call with a
	// *TooManyFailedTranslationsError if more than this fraction of any
	// translated name's ids could not be translated. Nil (the zero
	// value) disables the check entirely; a pointer is used instead of a
	// bare float64 so the zero value can mean "disabled" rather than
	// "require perfect translation", which a 0.0 default would silently
	// imply.
	MaximalUntranslatedFraction *float64
	// Override resolves individual name -> source pairs at apply time,
	// ahead of the configured NameMapper.
	Override mapping.OverrideFunc[string, string]
}

// Translator maps names to sources, fetches translations, and inserts
// them into a caller's own values. Grounded on _translator.Translator in
// the original implementation.
type Translator struct {
	Fetcher fetching.Fetcher
	Format  *format.Format

	// GlobalPlaceholders supplies placeholder values that are not
	// themselves columns of any fetched source (e.g. a literal
	// environment name baked into every translation).
	GlobalPlaceholders map[string]string
	// DefaultPlaceholders, if non-nil, lets an id absent from the fetched
	// records still translate via a default-value fallback.
	DefaultPlaceholders map[string]string

	// NameMapper matches a translatable's names against the fetcher's
	// known sources. Nil falls back to plain equality matching.
	NameMapper *mapping.Mapper[string, string]

	// Registry resolves a translatable value to its DataStructureIO. Nil
	// uses dio.Default.
	Registry *dio.Registry

	Logger *slog.Logger

	offline *translation.TranslationMap
}

// New creates an online Translator backed by fetcher.
func New(fetcher fetching.Fetcher, fmtSpec *format.Format) *Translator {
	return &Translator{Fetcher: fetcher, Format: fmtSpec}
}

// NewOffline creates an offline Translator backed by a previously built
// TranslationMap (e.g. one produced by Restore or Freeze), with no live
// Fetcher.
func NewOffline(tmap *translation.TranslationMap, fmtSpec *format.Format) *Translator {
	return &Translator{Format: fmtSpec, offline: tmap}
}

// Online reports whether this Translator can fetch new translations.
func (t *Translator) Online() bool { return t.Fetcher != nil && t.offline == nil }

func (t *Translator) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}

func (t *Translator) registry() *dio.Registry {
	if t.Registry == nil {
		return dio.Default
	}
	return t.Registry
}

func (t *Translator) nameMapper() *mapping.Mapper[string, string] {
	if t.NameMapper != nil {
		return t.NameMapper
	}
	return mapping.NewStringMapper(mapping.NewHeuristicScore[string, string](mapping.Equality[string]))
}

// Sources lists every source this Translator can translate from.
func (t *Translator) Sources(ctx context.Context) ([]string, error) {
	if t.offline != nil {
		return t.offline.Sources(), nil
	}
	return t.Fetcher.Sources(ctx)
}

// Freeze fetches every known source's translations and caches them,
// turning this Translator into an offline one backed by the cached
// TranslationMap instead of the live Fetcher. Needed before
// ReverseTranslate. Loosely grounded on the fetcher/cached_tmap duality
// in Translator.copy() in the original implementation.
func (t *Translator) Freeze(ctx context.Context) error {
	tmap, err := t.fetchAll(ctx)
	if err != nil {
		return err
	}
	t.offline = tmap
	return nil
}

// ReverseTranslate recovers the identifier that rendered to s within
// source. Requires an offline TranslationMap (see Freeze/Restore); only
// identifiers actually present in the fetched records can be recovered
// this way. Grounded on Translator.translate(reverse=True), narrowed to
// the TranslationMap.ReverseTranslate primitive: this port's dio adapters
// only translate id -> string, so reverse insertion back into a caller's
// own data structure is not implemented.
func (t *Translator) ReverseTranslate(source, s string) (idtype.Identifier, bool, error) {
	if t.offline == nil {
		return idtype.Identifier{}, false, fmt.Errorf("translator: reverse translation requires an offline TranslationMap; call Freeze or Restore first")
	}
	id, ok := t.offline.ReverseTranslate(source, s)
	return id, ok, nil
}

// Map resolves a name-to-source assignment for names against Sources,
// without fetching anything. Exposed separately so a caller can inspect
// or cache the mapping before translating. Grounded on the name-to-source
// mapping phase of Translator.translate (_get_updated_tmap).
func (t *Translator) Map(ctx context.Context, names []string, override mapping.OverrideFunc[string, string]) (map[string]string, error) {
	sources, err := t.Sources(ctx)
	if err != nil {
		return nil, err
	}

	taskID := idlog.NewTaskID()
	idlog.KeyEvent(t.logger(), taskID, "TRANSLATOR.MAP", idlog.StageEnter, "names", names, "sources", sources)
	start := time.Now()

	mapped, err := t.nameMapper().Apply(names, sources, "", override)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, mapped.Len())
	for _, name := range mapped.Values() {
		if candidates, ok := mapped.Candidates(name); ok && len(candidates) > 0 {
			out[name] = candidates[0]
		}
	}

	idlog.KeyEvent(t.logger(), taskID, "TRANSLATOR.MAP", idlog.StageExit,
		"execution_time", time.Since(start).String(), "mapping", out)

	return out, nil
}

// Translate translates the ids within translatable, returning a
// translated copy, or nil if opts.Inplace is set. Grounded on
// Translator.translate in the original implementation.
func (t *Translator) Translate(ctx context.Context, translatable any, opts TranslateOptions) (any, error) {
	if os.Getenv(DisabledEnvVar) == "true" {
		t.logger().Warn("translation aborted; " + DisabledEnvVar + " is set")
		if opts.Inplace {
			return nil, nil
		}
		return translatable, nil
	}

	taskID := idlog.NewTaskID()
	idlog.KeyEvent(t.logger(), taskID, "TRANSLATOR.TRANSLATE", idlog.StageEnter, "inplace", opts.Inplace)
	start := time.Now()

	impl, err := t.registry().Resolve(translatable)
	if err != nil {
		return nil, err
	}

	names, err := t.resolveNames(impl, translatable, opts.Names)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		if opts.Inplace {
			return nil, nil
		}
		return translatable, nil
	}

	nameToSource := make(map[string]string, len(opts.Names.NameToSource))
	for name, source := range opts.Names.NameToSource {
		nameToSource[name] = source
	}

	var toMap []string
	for _, name := range names {
		if _, ok := nameToSource[name]; !ok {
			toMap = append(toMap, name)
		}
	}
	if len(toMap) > 0 {
		mapped, err := t.Map(ctx, toMap, opts.Override)
		if err != nil {
			return nil, err
		}
		for name, source := range mapped {
			nameToSource[name] = source
		}
	}

	var translated []string
	for _, name := range names {
		if _, ok := nameToSource[name]; ok {
			translated = append(translated, name)
		}
	}
	if len(translated) == 0 {
		if opts.Inplace {
			return nil, nil
		}
		return translatable, nil
	}

	extracted, err := impl.Extract(translatable, translated)
	if err != nil {
		return nil, err
	}

	tmap, err := t.buildTranslationMap(ctx, translated, nameToSource, extracted)
	if err != nil {
		return nil, err
	}

	dictsByName := make(map[string]*translation.MagicDict, len(translated))
	for _, name := range translated {
		if d, ok := tmap.MagicDict(nameToSource[name]); ok {
			dictsByName[name] = d
		}
	}

	if opts.MaximalUntranslatedFraction != nil {
		if err := verifyUntranslatedFraction(translated, nameToSource, extracted, dictsByName, *opts.MaximalUntranslatedFraction); err != nil {
			return nil, err
		}
	}

	result, err := impl.Insert(translatable, translated, dictsByName, !opts.Inplace)
	if err != nil {
		return nil, err
	}

	idlog.KeyEvent(t.logger(), taskID, "TRANSLATOR.TRANSLATE", idlog.StageExit,
		"execution_time", time.Since(start).String(), "names", translated)

	return result, nil
}

func (t *Translator) resolveNames(impl dio.DataStructureIO, translatable any, n Names) ([]string, error) {
	names := n.Explicit
	if names == nil {
		for name := range n.NameToSource {
			names = append(names, name)
		}
		if names == nil {
			derived, ok := impl.Names(translatable)
			if !ok {
				return nil, &MissingNamesError{TypeName: fmt.Sprintf("%T", translatable)}
			}
			names = derived
		}
	}

	if n.Ignore == nil {
		return names, nil
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !n.Ignore(name) {
			out = append(out, name)
		}
	}
	return out, nil
}

func (t *Translator) buildTranslationMap(ctx context.Context, names []string, nameToSource map[string]string, extracted map[string][]idtype.Identifier) (*translation.TranslationMap, error) {
	if t.offline != nil {
		return t.offline, nil
	}

	idsBySource := map[string]map[idtype.Identifier]struct{}{}
	for _, name := range names {
		source := nameToSource[name]
		set := idsBySource[source]
		if set == nil {
			set = map[idtype.Identifier]struct{}{}
			idsBySource[source] = set
		}
		for _, id := range extracted[name] {
			set[id] = struct{}{}
		}
	}

	placeholders := t.Format.Placeholders()
	required := t.Format.RequiredPlaceholders()

	sourceOrder := make([]string, 0, len(idsBySource))
	for source := range idsBySource {
		sourceOrder = append(sourceOrder, source)
	}
	sort.Strings(sourceOrder)

	idsToFetch := make([]fetching.IDsToFetch, 0, len(sourceOrder))
	for _, source := range sourceOrder {
		ids := make([]idtype.Identifier, 0, len(idsBySource[source]))
		for id := range idsBySource[source] {
			ids = append(ids, id)
		}
		idsToFetch = append(idsToFetch, fetching.IDsToFetch{Source: source, IDs: ids})
	}

	fetched, err := t.Fetcher.Fetch(ctx, idsToFetch, placeholders, required)
	if err != nil {
		return nil, err
	}
	return t.render(fetched)
}

func (t *Translator) render(fetched map[string]*translation.PlaceholderTranslations) (*translation.TranslationMap, error) {
	dicts := make(map[string]*translation.MagicDict, len(fetched))
	for source, pt := range fetched {
		dict, err := translation.Apply(t.Format, *pt, t.GlobalPlaceholders, t.DefaultPlaceholders)
		if err != nil {
			return nil, err
		}
		dicts[source] = dict
	}
	return translation.NewTranslationMap(dicts), nil
}

func (t *Translator) fetchAll(ctx context.Context) (*translation.TranslationMap, error) {
	if t.offline != nil {
		return t.offline, nil
	}
	placeholders := t.Format.Placeholders()
	required := t.Format.RequiredPlaceholders()
	fetched, err := t.Fetcher.FetchAll(ctx, placeholders, required)
	if err != nil {
		return nil, err
	}
	return t.render(fetched)
}

func verifyUntranslatedFraction(names []string, nameToSource map[string]string, extracted map[string][]idtype.Identifier, dicts map[string]*translation.MagicDict, maxFraction float64) error {
	for _, name := range names {
		ids := extracted[name]
		total := len(ids)
		if total == 0 {
			continue
		}
		dict := dicts[name]
		untranslated := 0
		for _, id := range ids {
			if dict == nil {
				untranslated++
				continue
			}
			if !dict.Contains(id) && !dict.HasFallback() {
				untranslated++
			}
		}
		if fraction := float64(untranslated) / float64(total); fraction > maxFraction {
			return &TooManyFailedTranslationsError{
				Name: name, Source: nameToSource[name],
				UntranslatedCount: untranslated, TotalCount: total, MaxFraction: maxFraction,
			}
		}
	}
	return nil
}
