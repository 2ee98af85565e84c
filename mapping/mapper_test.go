package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/id-translation/idtype"
	"github.com/leapstack-labs/id-translation/mapping"
)

func TestMapperIdentityMatch(t *testing.T) {
	m := mapping.NewStringMapper(mapping.NewHeuristicScore[string, string](mapping.Equality[string]))
	dm, err := m.Apply([]string{"id"}, []string{"id", "name"}, "people", nil)
	require.NoError(t, err)
	candidates, ok := dm.Candidates("id")
	require.True(t, ok)
	assert.Equal(t, []string{"id"}, candidates)
}

func TestMapperScoresBestCandidate(t *testing.T) {
	m := mapping.NewStringMapper(mapping.NewHeuristicScore[string, string](mapping.ModifiedHamming(true)))
	m.MinScore = 0.3
	// ModifiedHamming compares from the back: last_name shares 7 of its 9
	// trailing characters with first_name (0.5*7/9 - 0.001 ≈ 0.388 with the
	// length ratio term), firstname only 4 (0.5*4/9 ≈ 0.222).
	dm, err := m.Apply([]string{"first_name"}, []string{"firstname", "last_name"}, "people", nil)
	require.NoError(t, err)
	candidates, ok := dm.Candidates("first_name")
	require.True(t, ok)
	assert.Equal(t, "last_name", candidates[0])
}

func TestMapperStaticOverrideBypassesScoring(t *testing.T) {
	m := mapping.NewStringMapper(mapping.NewHeuristicScore[string, string](mapping.Disabled(true)))
	m.Overrides = &mapping.Overrides[string, string]{Default: map[string]string{"id": "person_id"}}
	dm, err := m.Apply([]string{"id"}, []string{"person_id", "name"}, "people", nil)
	require.NoError(t, err)
	candidates, ok := dm.Candidates("id")
	require.True(t, ok)
	assert.Equal(t, []string{"person_id"}, candidates)
}

func TestMapperContextSensitiveOverrideRequiresContext(t *testing.T) {
	m := mapping.NewStringMapper(mapping.NewHeuristicScore[string, string](mapping.Disabled(false)))
	m.Overrides = &mapping.Overrides[string, string]{ByContext: map[string]map[string]string{"people": {"id": "person_id"}}}
	_, err := m.Apply([]string{"id"}, []string{"person_id"}, "", nil)
	var mappingErr *mapping.MappingError
	require.ErrorAs(t, err, &mappingErr)
}

func TestMapperOverrideFuncTakesPrecedence(t *testing.T) {
	m := mapping.NewStringMapper(mapping.NewHeuristicScore[string, string](mapping.Disabled(false)))
	override := func(value string, candidates map[string]struct{}, context string) (string, bool) {
		if value == "id" {
			return "person_id", true
		}
		return "", false
	}
	dm, err := m.Apply([]string{"id"}, []string{"person_id", "name"}, "people", override)
	require.NoError(t, err)
	candidates, ok := dm.Candidates("id")
	require.True(t, ok)
	assert.Equal(t, []string{"person_id"}, candidates)
}

func TestMapperOverrideFuncUnknownCandidateRaises(t *testing.T) {
	m := mapping.NewStringMapper(mapping.NewHeuristicScore[string, string](mapping.Disabled(false)))
	override := func(value string, candidates map[string]struct{}, context string) (string, bool) {
		return "not_a_real_candidate", true
	}
	_, err := m.Apply([]string{"id"}, []string{"person_id"}, "people", override)
	var userErr *mapping.UserMappingError
	require.ErrorAs(t, err, &userErr)
}

func TestMapperOnUnmappedRaise(t *testing.T) {
	m := mapping.NewStringMapper(mapping.NewHeuristicScore[string, string](mapping.Equality[string]))
	m.OnUnmapped = mapping.OnUnmappedRaise
	_, err := m.Apply([]string{"id"}, []string{"name"}, "people", nil)
	var unmappedErr *mapping.UnmappedValuesError
	require.ErrorAs(t, err, &unmappedErr)
}

func TestMapperOnUnmappedIgnoreLeavesPartialMapping(t *testing.T) {
	m := mapping.NewStringMapper(mapping.NewHeuristicScore[string, string](mapping.Equality[string]))
	dm, err := m.Apply([]string{"id", "ghost"}, []string{"id"}, "people", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, dm.Len())
	_, ok := dm.Candidates("ghost")
	assert.False(t, ok)
}

func TestMapperOneToOneCardinality(t *testing.T) {
	m := mapping.NewStringMapper(mapping.NewHeuristicScore[string, string](mapping.Equality[string]))
	m.Cardinality = idtype.OneToOne
	dm, err := m.Apply([]string{"id", "name"}, []string{"id", "name"}, "people", nil)
	require.NoError(t, err)
	assert.Equal(t, idtype.OneToOne, dm.Cardinality())
	assert.Equal(t, 2, dm.Len())
}

func TestMapperFilterExcludesCandidate(t *testing.T) {
	m := mapping.NewStringMapper(mapping.NewHeuristicScore[string, string](mapping.Equality[string]))
	filter, err := mapping.FilterPlaceholders("name", true)
	require.NoError(t, err)
	m.Filters = []mapping.FilterFunc[string, string]{filter}
	m.OnUnmapped = mapping.OnUnmappedIgnore
	dm, err := m.Apply([]string{"name"}, []string{"name"}, "people", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, dm.Len())
}

func TestDirectionalMappingInverse(t *testing.T) {
	m := mapping.NewStringMapper(mapping.NewHeuristicScore[string, string](mapping.Equality[string]))
	dm, err := m.Apply([]string{"id", "name"}, []string{"id", "name"}, "people", nil)
	require.NoError(t, err)

	inverse := dm.Inverse()
	assert.Equal(t, []string{"id"}, inverse["id"])
	assert.Equal(t, []string{"name"}, inverse["name"])
}

func TestMapperEmptyInputsYieldEmptyMapping(t *testing.T) {
	m := mapping.NewStringMapper(mapping.NewHeuristicScore[string, string](mapping.Equality[string]))
	dm, err := m.Apply(nil, []string{"id"}, "people", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, dm.Len())
}
