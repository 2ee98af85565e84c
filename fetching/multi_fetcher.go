package fetching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/id-translation/translation"
)

// OnSourceConflict controls what happens when more than one child Fetcher
// of a MultiFetcher claims the same source name.
type OnSourceConflict string

const (
	OnSourceConflictRaise OnSourceConflict = "raise"
	OnSourceConflictWarn  OnSourceConflict = "warn"
	OnSourceConflictKeep  OnSourceConflict = "keep"
)

// MultiFetcher combines several Fetchers into one, dispatching fetches to
// the children concurrently. Each source is owned by exactly one child: the
// first (highest-ranked) Fetcher to report it. Grounded on
// fetching._multi_fetcher.MultiFetcher in the original implementation.
type MultiFetcher struct {
	children []Fetcher

	OnSourceConflict OnSourceConflict
	// MaxWorkers bounds concurrent dispatch to children; 0 means
	// unbounded (one goroutine per involved child).
	MaxWorkers int
	Logger     *slog.Logger

	initOnce    sync.Once
	initErr     error
	mu          sync.Mutex
	ownerOf     map[string]Fetcher
	sourceOrder []string
}

// NewMultiFetcher ranks children in the order given: children[0] wins any
// source-name conflict over children[1], and so on.
func NewMultiFetcher(children ...Fetcher) *MultiFetcher {
	return &MultiFetcher{
		children:         children,
		OnSourceConflict: OnSourceConflictRaise,
		Logger:           slog.Default(),
		ownerOf:          map[string]Fetcher{},
	}
}

func (m *MultiFetcher) ensureInitialized(ctx context.Context) error {
	m.initOnce.Do(func() {
		for rank, child := range m.children {
			sources, err := child.Sources(ctx)
			if err != nil {
				m.initErr = fmt.Errorf("fetching: ranking child fetcher %d: %w", rank, err)
				return
			}
			for _, source := range sources {
				if _, claimed := m.ownerOf[source]; claimed {
					switch m.OnSourceConflict {
					case OnSourceConflictRaise:
						m.initErr = &SourceConflictError{Source: source}
						return
					case OnSourceConflictWarn:
						m.Logger.Warn("source claimed by more than one fetcher, keeping the higher-ranked one", "source", source, "rank", rank)
					default:
					}
					continue
				}
				m.ownerOf[source] = child
				m.sourceOrder = append(m.sourceOrder, source)
			}
		}
	})
	return m.initErr
}

// Sources implements Fetcher.
func (m *MultiFetcher) Sources(ctx context.Context) ([]string, error) {
	if err := m.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	out := make([]string, len(m.sourceOrder))
	copy(out, m.sourceOrder)
	return out, nil
}

// Placeholders implements Fetcher.
func (m *MultiFetcher) Placeholders(ctx context.Context, source string) ([]string, error) {
	child, err := m.owner(ctx, source)
	if err != nil {
		return nil, err
	}
	return child.Placeholders(ctx, source)
}

func (m *MultiFetcher) owner(ctx context.Context, source string) (Fetcher, error) {
	if err := m.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	child, ok := m.ownerOf[source]
	if !ok {
		return nil, &UnknownSourceError{Source: source}
	}
	return child, nil
}

// AllowFetchAll reports true if at least one child permits fetch-all.
func (m *MultiFetcher) AllowFetchAll() bool {
	for _, c := range m.children {
		if c.AllowFetchAll() {
			return true
		}
	}
	return false
}

// Online reports true only if every child is online.
func (m *MultiFetcher) Online() bool {
	for _, c := range m.children {
		if !c.Online() {
			return false
		}
	}
	return true
}

// Close closes every child, joining any errors encountered.
func (m *MultiFetcher) Close() error {
	var errs []error
	for _, c := range m.children {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Fetch implements Fetcher, splitting idsToFetch by source owner and
// dispatching one call per involved child concurrently.
func (m *MultiFetcher) Fetch(ctx context.Context, idsToFetch []IDsToFetch, placeholders, required []string) (map[string]*translation.PlaceholderTranslations, error) {
	if err := m.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	byChild := map[Fetcher][]IDsToFetch{}
	for _, item := range idsToFetch {
		child, err := m.owner(ctx, item.Source)
		if err != nil {
			return nil, err
		}
		byChild[child] = append(byChild[child], item)
	}

	out := make(map[string]*translation.PlaceholderTranslations, len(idsToFetch))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if m.MaxWorkers > 0 {
		g.SetLimit(m.MaxWorkers)
	}
	for child, items := range byChild {
		child, items := child, items
		g.Go(func() error {
			result, err := child.Fetch(gctx, items, placeholders, required)
			if err != nil {
				return err
			}
			mu.Lock()
			for source, pt := range result {
				out[source] = pt
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchAll implements Fetcher, dispatching to every child that allows it
// and keeping only the sources each child actually owns.
func (m *MultiFetcher) FetchAll(ctx context.Context, placeholders, required []string) (map[string]*translation.PlaceholderTranslations, error) {
	if !m.AllowFetchAll() {
		return nil, &ForbiddenOperationError{Msg: "fetching: fetch-all is not permitted by any child fetcher"}
	}
	if err := m.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	out := make(map[string]*translation.PlaceholderTranslations)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if m.MaxWorkers > 0 {
		g.SetLimit(m.MaxWorkers)
	}
	for _, child := range m.children {
		if !child.AllowFetchAll() {
			continue
		}
		child := child
		g.Go(func() error {
			result, err := child.FetchAll(gctx, placeholders, required)
			if err != nil {
				return err
			}
			mu.Lock()
			for source, pt := range result {
				if m.ownerOf[source] == child {
					out[source] = pt
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
