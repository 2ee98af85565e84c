package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/id-translation/idtype"
	"github.com/leapstack-labs/id-translation/internal/config"
)

func TestDecodeMapperConfig_Defaults(t *testing.T) {
	cfg, err := config.DecodeMapperConfig(map[string]any{})
	require.NoError(t, err)

	m, err := cfg.Build(false)
	require.NoError(t, err)
	assert.Equal(t, 0.90, m.MinScore)
	assert.Equal(t, idtype.ManyToOne, m.Cardinality)
}

func TestDecodeMapperConfig_ModifiedHammingWithHeuristics(t *testing.T) {
	raw := map[string]any{
		"score_function": map[string]map[string]any{
			"modified_hamming": {"add_length_ratio_term": false},
		},
		"score_function_heuristics": []any{
			map[string]any{"function": "force_lower_case"},
		},
		"min_score": 0.75,
		"cardinality": "1:1",
	}
	cfg, err := config.DecodeMapperConfig(raw)
	require.NoError(t, err)

	m, err := cfg.Build(false)
	require.NoError(t, err)
	assert.Equal(t, 0.75, m.MinScore)
	assert.Equal(t, idtype.OneToOne, m.Cardinality)

	mapping_, err := m.Apply([]string{"ID"}, []string{"id"}, "", nil)
	require.NoError(t, err)
	candidates, ok := mapping_.Candidates("ID")
	require.True(t, ok)
	assert.Equal(t, []string{"id"}, candidates)
}

func TestDecodeMapperConfig_FilterFunctions(t *testing.T) {
	raw := map[string]any{
		"filter_functions": []any{
			map[string]any{"function": "banned_substring", "substrings": []any{"_internal"}},
		},
	}
	cfg, err := config.DecodeMapperConfig(raw)
	require.NoError(t, err)

	m, err := cfg.Build(true)
	require.NoError(t, err)
	require.Len(t, m.Filters, 1)
	assert.False(t, m.Filters[0]("name", "name_internal", ""))
	assert.True(t, m.Filters[0]("name", "name", ""))
}

func TestDecodeMapperConfig_Overrides(t *testing.T) {
	raw := map[string]any{
		"overrides": map[string]any{
			"owner_id": "people",
			"animal_id": map[string]any{
				"zoo": "animals",
			},
		},
	}
	cfg, err := config.DecodeMapperConfig(raw)
	require.NoError(t, err)

	m, err := cfg.Build(true)
	require.NoError(t, err)
	require.NotNil(t, m.Overrides)
	assert.Equal(t, "people", m.Overrides.Default["owner_id"])
	assert.Equal(t, "animals", m.Overrides.ByContext["zoo"]["animal_id"])
}

func TestDecodeMapperConfig_ContextSensitiveOverrideRejectedForNameToSource(t *testing.T) {
	raw := map[string]any{
		"overrides": map[string]any{
			"animal_id": map[string]any{"zoo": "animals"},
		},
	}
	cfg, err := config.DecodeMapperConfig(raw)
	require.NoError(t, err)

	_, err = cfg.Build(false)
	assert.Error(t, err)
}

func TestDecodeFetcherConfig(t *testing.T) {
	raw := map[string]any{
		"allow_fetch_all":    true,
		"on_source_conflict": "warn",
		"max_workers":        4,
	}
	cfg, err := config.DecodeFetcherConfig(raw)
	require.NoError(t, err)
	assert.True(t, cfg.AllowFetchAll)
	assert.Equal(t, 4, cfg.MaxWorkers)
	assert.Equal(t, "warn", string(cfg.OnSourceConflictPolicy()))
}

func TestDecodeTranslatorConfig_DefaultFormat(t *testing.T) {
	cfg, err := config.DecodeTranslatorConfig(map[string]any{})
	require.NoError(t, err)

	fmtSpec, err := cfg.BuildFormat()
	require.NoError(t, err)
	assert.Equal(t, "{id}:{name}", fmtSpec.String())
}

func TestDecodeTranslatorConfig_CustomFormat(t *testing.T) {
	cfg, err := config.DecodeTranslatorConfig(map[string]any{"fmt": "{name}"})
	require.NoError(t, err)

	fmtSpec, err := cfg.BuildFormat()
	require.NoError(t, err)
	assert.Equal(t, "{name}", fmtSpec.String())
}
