package fetching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/id-translation/internal/idlog"
	"github.com/leapstack-labs/id-translation/mapping"
	"github.com/leapstack-labs/id-translation/translation"
)

// AbstractFetcher implements the Fetcher interface around an Implementation,
// adding placeholder-name mapping, an optional cache, and the allow-fetch-all
// gate. Grounded on fetching._abstract_fetcher.AbstractFetcher in the
// original implementation.
type AbstractFetcher struct {
	impl   Implementation
	Mapper *mapping.Mapper[string, string]
	Cache  CacheAccess
	Logger *slog.Logger

	allowFetchAll bool
	online        bool

	mu           sync.Mutex
	initOnce     sync.Once
	initErr      error
	sourceOrder  []string
	placeholders map[string][]string
}

// NewAbstractFetcher wraps impl, defaulting AllowFetchAll and Online to
// true. Use the returned value's exported fields to configure a Mapper or
// Cache before first use.
func NewAbstractFetcher(impl Implementation) *AbstractFetcher {
	return &AbstractFetcher{
		impl:          impl,
		allowFetchAll: true,
		online:        true,
		Logger:        slog.Default(),
		placeholders:  map[string][]string{},
	}
}

// SetAllowFetchAll overrides the fetch-all permission (true by default).
func (f *AbstractFetcher) SetAllowFetchAll(v bool) { f.allowFetchAll = v }

// SetOnline overrides connectivity status (true by default).
func (f *AbstractFetcher) SetOnline(v bool) { f.online = v }

// AllowFetchAll implements Fetcher.
func (f *AbstractFetcher) AllowFetchAll() bool { return f.allowFetchAll }

// Online implements Fetcher.
func (f *AbstractFetcher) Online() bool { return f.online }

// Close implements Fetcher. It closes Cache and the Implementation, if
// either implements io.Closer-shaped Close() error.
func (f *AbstractFetcher) Close() error {
	type closer interface{ Close() error }
	var errs []error
	if c, ok := f.Cache.(closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := f.impl.(closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func (f *AbstractFetcher) ensureInitialized(ctx context.Context) error {
	f.initOnce.Do(func() {
		discovered, err := f.impl.InitializeSources(ctx)
		if err != nil {
			f.initErr = fmt.Errorf("fetching: initializing sources: %w", err)
			return
		}
		for _, sp := range discovered {
			f.sourceOrder = append(f.sourceOrder, sp.Source)
			f.placeholders[sp.Source] = sp.Placeholders
		}
	})
	return f.initErr
}

// Sources implements Fetcher.
func (f *AbstractFetcher) Sources(ctx context.Context) ([]string, error) {
	if err := f.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	out := make([]string, len(f.sourceOrder))
	copy(out, f.sourceOrder)
	return out, nil
}

// Placeholders implements Fetcher.
func (f *AbstractFetcher) Placeholders(ctx context.Context, source string) ([]string, error) {
	if err := f.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	ph, ok := f.placeholders[source]
	if !ok {
		return nil, &UnknownSourceError{Source: source}
	}
	out := make([]string, len(ph))
	copy(out, ph)
	return out, nil
}

// Fetch implements Fetcher. Fetches are serialized through an internal
// mutex, so a single AbstractFetcher handles at most one fetch at a time —
// a deliberate simplification of the original's reentrancy guard, which
// only asserts no concurrent operation is already running rather than
// queuing callers behind one.
func (f *AbstractFetcher) Fetch(ctx context.Context, idsToFetch []IDsToFetch, placeholders, required []string) (map[string]*translation.PlaceholderTranslations, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	out := make(map[string]*translation.PlaceholderTranslations, len(idsToFetch))
	for _, item := range idsToFetch {
		if _, known := f.placeholders[item.Source]; !known {
			return nil, &UnknownSourceError{Source: item.Source}
		}
		if item.IDs == nil && !f.allowFetchAll {
			return nil, &ForbiddenOperationError{Msg: fmt.Sprintf("fetching: fetch-all is not permitted for source %q", item.Source)}
		}

		actualPlaceholders, actualRequired, err := f.mapPlaceholders(item.Source, placeholders, required)
		if err != nil {
			return nil, err
		}

		instr := FetchInstruction{
			Source:       item.Source,
			IDs:          item.IDs,
			Placeholders: actualPlaceholders,
			Required:     actualRequired,
		}

		if f.Cache != nil {
			if cached, hit, err := f.Cache.Load(ctx, instr); err != nil {
				return nil, err
			} else if hit {
				out[item.Source] = cached
				continue
			}
		}

		taskID := idlog.NewTaskID()
		idlog.KeyEvent(f.Logger, taskID, "ABSTRACTFETCHER.FETCH_TRANSLATIONS", idlog.StageEnter,
			"source", instr.Source, "placeholders", instr.Placeholders, "fetch_all", instr.IsFetchAll())
		fetchStart := time.Now()

		pt, err := f.impl.FetchTranslations(ctx, instr)
		if err != nil {
			return nil, fmt.Errorf("fetching: source %q: %w", item.Source, err)
		}

		idlog.KeyEvent(f.Logger, taskID, "ABSTRACTFETCHER.FETCH_TRANSLATIONS", idlog.StageExit,
			"execution_time", time.Since(fetchStart).String(), "source", instr.Source, "num_ids", pt.Len())

		if f.Cache != nil {
			if err := f.Cache.Store(ctx, instr, pt); err != nil {
				f.Logger.Warn("failed to store fetched translations in cache", "source", item.Source, "error", err)
			}
		}
		out[item.Source] = pt
	}
	return out, nil
}

// FetchAll implements Fetcher.
func (f *AbstractFetcher) FetchAll(ctx context.Context, placeholders, required []string) (map[string]*translation.PlaceholderTranslations, error) {
	if !f.allowFetchAll {
		return nil, &ForbiddenOperationError{Msg: "fetching: fetch-all is not permitted by this fetcher"}
	}
	sources, err := f.Sources(ctx)
	if err != nil {
		return nil, err
	}
	idsToFetch := make([]IDsToFetch, len(sources))
	for i, s := range sources {
		idsToFetch[i] = IDsToFetch{Source: s, IDs: nil}
	}
	return f.Fetch(ctx, idsToFetch, placeholders, required)
}

// mapPlaceholders maps wanted/required placeholder names onto source's
// native column names, using Mapper if set or plain identity otherwise.
// IDPlaceholder is always force-added to both wanted and required, since
// every fetch instruction needs an id column regardless of what the caller
// asked for. Grounded on
// fetching._abstract_fetcher.AbstractFetcher._make_fetch_instruction (which
// adds ID to required_placeholders and prepends it to placeholders before
// mapping) and .map_placeholders.
func (f *AbstractFetcher) mapPlaceholders(source string, wanted, required []string) (actualWanted, actualRequired []string, err error) {
	candidates := f.placeholders[source]

	wanted = ensureContains(wanted, mapping.IDPlaceholder)
	required = ensureContains(required, mapping.IDPlaceholder)

	combined := dedupPreserveOrder(append(append([]string{}, wanted...), required...))

	taskID := idlog.NewTaskID()
	idlog.KeyEvent(f.Logger, taskID, "ABSTRACTFETCHER.MAP_PLACEHOLDERS", idlog.StageEnter,
		"context", source, "values", combined, "candidates", candidates)
	start := time.Now()

	mapped := map[string]string{}
	if f.Mapper != nil {
		dm, err := f.Mapper.Apply(combined, candidates, source, nil)
		if err != nil {
			return nil, nil, err
		}
		for _, v := range dm.Values() {
			if cs, ok := dm.Candidates(v); ok && len(cs) > 0 {
				mapped[v] = cs[0]
			}
		}
	} else {
		candidateSet := map[string]struct{}{}
		for _, c := range candidates {
			candidateSet[c] = struct{}{}
		}
		for _, v := range combined {
			if _, ok := candidateSet[v]; ok {
				mapped[v] = v
			}
		}
	}

	for _, w := range wanted {
		if m, ok := mapped[w]; ok {
			actualWanted = append(actualWanted, m)
		}
	}
	for _, r := range required {
		m, ok := mapped[r]
		if !ok {
			return nil, nil, &UnknownPlaceholderError{Source: source, Placeholder: r}
		}
		actualRequired = append(actualRequired, m)
	}

	idlog.KeyEvent(f.Logger, taskID, "ABSTRACTFETCHER.MAP_PLACEHOLDERS", idlog.StageExit,
		"execution_time", time.Since(start).String(), "context", source, "mapping", mapped)

	return actualWanted, actualRequired, nil
}

// ensureContains returns items with item prepended if not already present,
// mirroring the original's "(ID, *placeholders)" prepend.
func ensureContains(items []string, item string) []string {
	for _, it := range items {
		if it == item {
			return items
		}
	}
	return append([]string{item}, items...)
}

func dedupPreserveOrder(items []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
