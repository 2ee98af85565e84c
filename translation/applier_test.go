package translation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/id-translation/format"
	"github.com/leapstack-labs/id-translation/idtype"
	"github.com/leapstack-labs/id-translation/translation"
)

func peopleTranslations() translation.PlaceholderTranslations {
	return translation.PlaceholderTranslations{
		Source:        "people",
		Placeholders:  []string{"id", "name", "is_nice"},
		IDPlaceholder: "id",
		Records: [][]idtype.Value{
			{idtype.NewInt64(1), idtype.NewString("Sofia"), idtype.NewBool(true)},
			{idtype.NewInt64(2), idtype.NewString("Richard"), idtype.NewBool(false)},
		},
	}
}

func TestApply_RendersEveryRecord(t *testing.T) {
	fmtSpec, err := format.Parse("{name}[, nice={is_nice}]")
	require.NoError(t, err)

	dict, err := translation.Apply(fmtSpec, peopleTranslations(), nil, nil)
	require.NoError(t, err)

	got, ok := dict.Get(idtype.Int64(1))
	require.True(t, ok)
	assert.Equal(t, "Sofia, nice=true", got)

	_, ok = dict.Get(idtype.Int64(99))
	assert.False(t, ok)
}

func TestApply_GlobalDefaultFillsMissingColumn(t *testing.T) {
	pt := peopleTranslations()
	pt.Placeholders = []string{"id", "name"}
	pt.Records = [][]idtype.Value{
		{idtype.NewInt64(1), idtype.NewString("Sofia")},
	}

	fmtSpec, err := format.Parse("{name} ({env})")
	require.NoError(t, err)

	dict, err := translation.Apply(fmtSpec, pt, map[string]string{"env": "prod"}, nil)
	require.NoError(t, err)

	got, ok := dict.Get(idtype.Int64(1))
	require.True(t, ok)
	assert.Equal(t, "Sofia (prod)", got)
}

func TestApply_UnknownDefaultsEnableFallback(t *testing.T) {
	fmtSpec, err := format.Parse("{name}[, nice={is_nice}]")
	require.NoError(t, err)

	dict, err := translation.Apply(fmtSpec, peopleTranslations(), nil, map[string]string{"name": "<unknown>"})
	require.NoError(t, err)

	got, ok := dict.Get(idtype.Int64(99))
	require.True(t, ok)
	assert.Equal(t, "<unknown>", got)
}

func TestApply_MissingIDPlaceholderErrors(t *testing.T) {
	pt := peopleTranslations()
	pt.IDPlaceholder = "no-such-column"

	fmtSpec, err := format.Parse("{name}")
	require.NoError(t, err)

	_, err = translation.Apply(fmtSpec, pt, nil, nil)
	require.Error(t, err)

	var missing *translation.MissingIDPlaceholderError
	require.ErrorAs(t, err, &missing)
}

func TestTranslationMap_ReverseTranslate(t *testing.T) {
	fmtSpec, err := format.Parse("{name}")
	require.NoError(t, err)

	dict, err := translation.Apply(fmtSpec, peopleTranslations(), nil, nil)
	require.NoError(t, err)

	tm := translation.NewTranslationMap(map[string]*translation.MagicDict{"people": dict})

	got, ok := tm.Translate("people", idtype.Int64(2))
	require.True(t, ok)
	assert.Equal(t, "Richard", got)

	id, ok := tm.ReverseTranslate("people", "Richard")
	require.True(t, ok)
	assert.Equal(t, idtype.Int64(2), id)

	_, ok = tm.ReverseTranslate("people", "Nobody")
	assert.False(t, ok)
}

func TestTranslationMap_SnapshotRoundtrip(t *testing.T) {
	fmtSpec, err := format.Parse("{name}")
	require.NoError(t, err)

	dict, err := translation.Apply(fmtSpec, peopleTranslations(), nil, nil)
	require.NoError(t, err)

	tm := translation.NewTranslationMap(map[string]*translation.MagicDict{"people": dict})
	restored, err := translation.FromSnapshot(tm.Snapshot())
	require.NoError(t, err)

	got, ok := restored.Translate("people", idtype.Int64(1))
	require.True(t, ok)
	assert.Equal(t, "Sofia", got)
	assert.Equal(t, tm.Len(), restored.Len())
}
