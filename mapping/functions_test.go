package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/id-translation/mapping"
)

func TestEquality(t *testing.T) {
	assert.Equal(t, 1.0, mapping.Equality("id", "id", 0))
	assert.Equal(t, 0.0, mapping.Equality("id", "name", 0))
}

func TestModifiedHamming(t *testing.T) {
	score := mapping.ModifiedHamming(false)
	assert.Equal(t, 1.0, score("id", "id", 0))
	assert.Greater(t, score("customer_id", "id", 0), 0.0)
}

func TestModifiedHammingPositionalPenalty(t *testing.T) {
	score := mapping.ModifiedHamming(false)
	assert.Equal(t, 1.0-mapping.DefaultModifiedHammingPositionalPenalty, score("id", "id", 1))

	custom := mapping.ModifiedHamming(false, 0.01)
	assert.Equal(t, 1.0-0.01*2, custom("id", "id", 2))
}

func TestDisabledStrictPanics(t *testing.T) {
	score := mapping.Disabled(true)
	assert.Panics(t, func() { score("a", "b", 0) })
}

func TestDisabledNonStrictRejects(t *testing.T) {
	score := mapping.Disabled(false)
	assert.True(t, score("a", "b", 0) < 0)
}

func TestForceLowerCase(t *testing.T) {
	value, candidate, ok := mapping.ForceLowerCase("CUSTOMER_ID", "Customer_Id")
	require.True(t, ok)
	assert.Equal(t, value, candidate)
}

func TestNormalizeWidth(t *testing.T) {
	value, candidate, ok := mapping.NormalizeWidth("ID", "ＩＤ") // fullwidth "ID"
	require.True(t, ok)
	assert.Equal(t, value, candidate)
}

func TestLikeDatabaseTablePlural(t *testing.T) {
	value, candidate, ok := mapping.LikeDatabaseTablePlural("customer_id", "customers")
	require.True(t, ok)
	assert.Equal(t, value, candidate)
}

func TestShortCircuitTo(t *testing.T) {
	sc, err := mapping.ShortCircuitTo(".*_bite_victim$", "humans")
	require.NoError(t, err)

	score, matched := sc("first_bite_victim", "humans")
	assert.True(t, matched)
	assert.True(t, score > 0)

	_, matched = sc("first_bite_victim", "animals")
	assert.False(t, matched)
}

func TestFilterNamesRemove(t *testing.T) {
	filter, err := mapping.FilterNames("^internal_.*", true)
	require.NoError(t, err)
	assert.False(t, filter("internal_id", "people", ""))
	assert.True(t, filter("customer_id", "people", ""))
}

func TestBannedSubstring(t *testing.T) {
	filter := mapping.BannedSubstring("secret", "private")
	assert.False(t, filter("secret_key", "people", ""))
	assert.True(t, filter("customer_id", "people", ""))
}
