package translator_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/id-translation/fetching"
	"github.com/leapstack-labs/id-translation/format"
	"github.com/leapstack-labs/id-translation/idtype"
	"github.com/leapstack-labs/id-translation/translation"
	"github.com/leapstack-labs/id-translation/translator"
)

type peopleBackend struct {
	rows [][]idtype.Value
}

func newPeopleBackend() *peopleBackend {
	return &peopleBackend{rows: [][]idtype.Value{
		{idtype.NewInt64(1), idtype.NewString("Sofia")},
		{idtype.NewInt64(2), idtype.NewString("Richard")},
	}}
}

func (b *peopleBackend) InitializeSources(context.Context) ([]fetching.SourcePlaceholders, error) {
	return []fetching.SourcePlaceholders{{Source: "people", Placeholders: []string{"id", "name"}}}, nil
}

func (b *peopleBackend) FetchTranslations(_ context.Context, instr fetching.FetchInstruction) (*translation.PlaceholderTranslations, error) {
	rows := b.rows
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

func newTranslator(t *testing.T) *translator.Translator {
	t.Helper()
	fetcher := fetching.NewAbstractFetcher(newPeopleBackend())
	fmtSpec, err := format.Parse("{name}")
	require.NoError(t, err)
	return translator.New(fetcher, fmtSpec)
}

func TestTranslate_ExplicitNameToSourceMap(t *testing.T) {
	tr := newTranslator(t)
	data := map[string][]idtype.Identifier{"owner_id": {idtype.Int64(1), idtype.Int64(2)}}

	result, err := tr.Translate(context.Background(), data, translator.TranslateOptions{
		Names: translator.Names{NameToSource: map[string]string{"owner_id": "people"}},
	})
	require.NoError(t, err)

	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"Sofia", "Richard"}, m["owner_id"])
}

func TestTranslate_DerivesNamesFromMap(t *testing.T) {
	tr := newTranslator(t)
	tr.NameMapper = nil // equality mapping: key "people" matches source "people" directly
	data := map[string][]idtype.Identifier{"people": {idtype.Int64(1)}}

	result, err := tr.Translate(context.Background(), data, translator.TranslateOptions{})
	require.NoError(t, err)

	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"Sofia"}, m["people"])
}

func TestTranslate_UnmappedNameLeftUntouched(t *testing.T) {
	tr := newTranslator(t)
	data := map[string][]idtype.Identifier{"unknown_thing": {idtype.Int64(1)}}

	result, err := tr.Translate(context.Background(), data, translator.TranslateOptions{})
	require.NoError(t, err)
	assert.Equal(t, data, result)
}

func TestTranslate_MaximalUntranslatedFractionRaises(t *testing.T) {
	tr := newTranslator(t)
	data := map[string][]idtype.Identifier{"people": {idtype.Int64(1), idtype.Int64(999)}}

	max := 0.25
	_, err := tr.Translate(context.Background(), data, translator.TranslateOptions{
		MaximalUntranslatedFraction: &max,
	})
	var tooMany *translator.TooManyFailedTranslationsError
	require.ErrorAs(t, err, &tooMany)
}

func TestTranslate_DisabledEnvVarShortCircuits(t *testing.T) {
	t.Setenv(translator.DisabledEnvVar, "true")
	tr := newTranslator(t)
	data := map[string][]idtype.Identifier{"people": {idtype.Int64(1)}}

	result, err := tr.Translate(context.Background(), data, translator.TranslateOptions{})
	require.NoError(t, err)
	assert.Equal(t, data, result)
}

func TestMap_ResolvesNameToSource(t *testing.T) {
	tr := newTranslator(t)
	mapped, err := tr.Map(context.Background(), []string{"people"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "people", mapped["people"])
}

func TestStoreAndRestore_RoundTrips(t *testing.T) {
	tr := newTranslator(t)

	var buf bytes.Buffer
	require.NoError(t, tr.Store(context.Background(), &buf))

	restored, err := translator.Restore(&buf, tr.Format)
	require.NoError(t, err)
	assert.False(t, restored.Online())

	data := map[string][]idtype.Identifier{"people": {idtype.Int64(2)}}
	result, err := restored.Translate(context.Background(), data, translator.TranslateOptions{})
	require.NoError(t, err)
	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"Richard"}, m["people"])
}

func TestFreeze_EnablesReverseTranslate(t *testing.T) {
	tr := newTranslator(t)
	require.NoError(t, tr.Freeze(context.Background()))

	id, ok, err := tr.ReverseTranslate("people", "Sofia")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, idtype.Int64(1), id)
}

func TestReverseTranslate_RequiresOfflineSnapshot(t *testing.T) {
	tr := newTranslator(t)
	_, _, err := tr.ReverseTranslate("people", "Sofia")
	assert.Error(t, err)
}
