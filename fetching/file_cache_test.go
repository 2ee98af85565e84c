package fetching_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/id-translation/fetching"
	"github.com/leapstack-labs/id-translation/idtype"
	"github.com/leapstack-labs/id-translation/translation"
)

func samplePT() *translation.PlaceholderTranslations {
	return &translation.PlaceholderTranslations{
		Source:        "people",
		Placeholders:  []string{"id", "name"},
		IDPlaceholder: "id",
		Records: [][]idtype.Value{
			{idtype.NewInt64(1), idtype.NewString("Sofia")},
			{idtype.NewInt64(2), idtype.NewString("Richard")},
		},
	}
}

func TestFileCache_StoreThenLoadRoundTrips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cache := fetching.NewFileCache(dir, []string{"config.toml", "sha-1"}, time.Hour)

	instr := fetching.FetchInstruction{Source: "people", IDs: []idtype.Identifier{idtype.Int64(1), idtype.Int64(2)}}
	require.NoError(t, cache.Store(context.Background(), instr, samplePT()))

	got, ok, err := cache.Load(context.Background(), instr)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "people", got.Source)
	assert.Equal(t, 2, got.Len())
}

func TestFileCache_MissBeforeStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cache := fetching.NewFileCache(dir, []string{"config.toml", "sha-1"}, time.Hour)

	_, ok, err := cache.Load(context.Background(), fetching.FetchInstruction{Source: "people"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileCache_CacheKeyMismatchInvalidates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	instr := fetching.FetchInstruction{Source: "people", IDs: []idtype.Identifier{idtype.Int64(1)}}

	written := fetching.NewFileCache(dir, []string{"config.toml", "sha-1"}, time.Hour)
	require.NoError(t, written.Store(context.Background(), instr, samplePT()))

	reread := fetching.NewFileCache(dir, []string{"config.toml", "sha-2"}, time.Hour)
	_, ok, err := reread.Load(context.Background(), instr)
	require.NoError(t, err)
	assert.False(t, ok, "a different cache key should be treated as a miss, not an error")
}

func TestFileCache_MaxAgeExpires(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	instr := fetching.FetchInstruction{Source: "people", IDs: []idtype.Identifier{idtype.Int64(1)}}

	cache := fetching.NewFileCache(dir, []string{"k"}, time.Millisecond)
	require.NoError(t, cache.Store(context.Background(), instr, samplePT()))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := cache.Load(context.Background(), instr)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileCache_Clear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	instr := fetching.FetchInstruction{Source: "people", IDs: []idtype.Identifier{idtype.Int64(1)}}

	cache := fetching.NewFileCache(dir, []string{"k"}, time.Hour)
	require.NoError(t, cache.Store(context.Background(), instr, samplePT()))
	require.NoError(t, cache.Clear())

	_, ok, err := cache.Load(context.Background(), instr)
	require.NoError(t, err)
	assert.False(t, ok)
}
