package fetching_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/id-translation/fetching"
	"github.com/leapstack-labs/id-translation/idtype"
	"github.com/leapstack-labs/id-translation/translation"
)

// fakeBackend is a minimal in-memory fetching.Implementation for tests.
type fakeBackend struct {
	sources []fetching.SourcePlaceholders
	rows    map[string][][]idtype.Value
	calls   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		sources: []fetching.SourcePlaceholders{
			{Source: "people", Placeholders: []string{"id", "name"}},
		},
		rows: map[string][][]idtype.Value{
			"people": {
				{idtype.NewInt64(1), idtype.NewString("Sofia")},
				{idtype.NewInt64(2), idtype.NewString("Richard")},
			},
		},
	}
}

func (b *fakeBackend) InitializeSources(context.Context) ([]fetching.SourcePlaceholders, error) {
	return b.sources, nil
}

func (b *fakeBackend) FetchTranslations(_ context.Context, instr fetching.FetchInstruction) (*translation.PlaceholderTranslations, error) {
	b.calls++
	rows := b.rows[instr.Source]
	if !instr.IsFetchAll() {
		wanted := map[string]struct{}{}
		for _, id := range instr.IDs {
			wanted[id.String()] = struct{}{}
		}
		var filtered [][]idtype.Value
		for _, row := range rows {
			if _, ok := wanted[row[0].String()]; ok {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}
	return &translation.PlaceholderTranslations{
		Source:        instr.Source,
		Placeholders:  []string{"id", "name"},
		IDPlaceholder: "id",
		Records:       rows,
	}, nil
}

func TestAbstractFetcherFetchByID(t *testing.T) {
	f := fetching.NewAbstractFetcher(newFakeBackend())
	result, err := f.Fetch(context.Background(), []fetching.IDsToFetch{
		{Source: "people", IDs: []idtype.Identifier{idtype.Int64(1)}},
	}, []string{"name"}, nil)
	require.NoError(t, err)
	pt, ok := result["people"]
	require.True(t, ok)
	assert.Equal(t, 1, pt.Len())
}

func TestAbstractFetcherFetchAllRespectsPermission(t *testing.T) {
	f := fetching.NewAbstractFetcher(newFakeBackend())
	f.SetAllowFetchAll(false)
	_, err := f.FetchAll(context.Background(), nil, nil)
	var forbidden *fetching.ForbiddenOperationError
	require.ErrorAs(t, err, &forbidden)
}

func TestAbstractFetcherFetchAllReturnsEverySource(t *testing.T) {
	f := fetching.NewAbstractFetcher(newFakeBackend())
	result, err := f.FetchAll(context.Background(), []string{"name"}, nil)
	require.NoError(t, err)
	pt, ok := result["people"]
	require.True(t, ok)
	assert.Equal(t, 2, pt.Len())
}

func TestAbstractFetcherUnknownSourceErrors(t *testing.T) {
	f := fetching.NewAbstractFetcher(newFakeBackend())
	_, err := f.Fetch(context.Background(), []fetching.IDsToFetch{{Source: "ghost"}}, nil, nil)
	var unknown *fetching.UnknownSourceError
	require.ErrorAs(t, err, &unknown)
}

func TestAbstractFetcherUnknownRequiredPlaceholderErrors(t *testing.T) {
	f := fetching.NewAbstractFetcher(newFakeBackend())
	_, err := f.Fetch(context.Background(), []fetching.IDsToFetch{
		{Source: "people", IDs: []idtype.Identifier{idtype.Int64(1)}},
	}, nil, []string{"does_not_exist"})
	var unknownPH *fetching.UnknownPlaceholderError
	require.ErrorAs(t, err, &unknownPH)
}

// strictBackend only ever returns the placeholders it was actually asked
// for, unlike fakeBackend, so a test using it can catch a regression where
// AbstractFetcher forgets to force "id" into the fetch instruction.
type strictBackend struct {
	sources   []fetching.SourcePlaceholders
	lastInstr fetching.FetchInstruction
}

func newStrictBackend() *strictBackend {
	return &strictBackend{
		sources: []fetching.SourcePlaceholders{
			{Source: "people", Placeholders: []string{"id", "name"}},
		},
	}
}

func (b *strictBackend) InitializeSources(context.Context) ([]fetching.SourcePlaceholders, error) {
	return b.sources, nil
}

func (b *strictBackend) FetchTranslations(_ context.Context, instr fetching.FetchInstruction) (*translation.PlaceholderTranslations, error) {
	b.lastInstr = instr
	records := [][]idtype.Value{{idtype.NewInt64(1), idtype.NewString("Sofia")}}
	return &translation.PlaceholderTranslations{
		Source:        instr.Source,
		Placeholders:  instr.Placeholders,
		IDPlaceholder: "id",
		Records:       records,
	}, nil
}

func TestAbstractFetcherAlwaysRequiresID(t *testing.T) {
	backend := newStrictBackend()
	f := fetching.NewAbstractFetcher(backend)

	// A caller asking only for "name" (no literal "id" reference) must
	// still see "id" forced into both the wanted and required placeholder
	// sets of the resulting FetchInstruction.
	_, err := f.Fetch(context.Background(), []fetching.IDsToFetch{
		{Source: "people", IDs: []idtype.Identifier{idtype.Int64(1)}},
	}, []string{"name"}, nil)
	require.NoError(t, err)

	assert.Contains(t, backend.lastInstr.Placeholders, "id")
	assert.Contains(t, backend.lastInstr.Required, "id")
}

func TestAbstractFetcherCacheHitSkipsBackend(t *testing.T) {
	backend := newFakeBackend()
	f := fetching.NewAbstractFetcher(backend)
	f.Cache = fetching.NewMemoryCache()

	req := []fetching.IDsToFetch{{Source: "people", IDs: []idtype.Identifier{idtype.Int64(1)}}}
	_, err := f.Fetch(context.Background(), req, []string{"name"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls)

	_, err = f.Fetch(context.Background(), req, []string{"name"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls, "second identical fetch should be served from cache")
}
