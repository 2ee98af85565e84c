package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/id-translation/format"
)

func TestParse_RequiredAndOptionalPlaceholders(t *testing.T) {
	f, err := format.Parse("{id}:{name}[, nice={is_nice}]")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"id", "name"}, f.RequiredPlaceholders())
	assert.ElementsMatch(t, []string{"is_nice"}, f.OptionalPlaceholders())
	assert.ElementsMatch(t, []string{"id", "name", "is_nice"}, f.Placeholders())
}

func TestCompile_DropsOptionalBlockWhenPlaceholderMissing(t *testing.T) {
	f, err := format.Parse("{id}:{name}[, nice={is_nice}]")
	require.NoError(t, err)

	compiled, err := f.Compile(map[string]struct{}{"id": {}, "name": {}})
	require.NoError(t, err)

	got := compiled.Render(map[string]string{"id": "1", "name": "Sofia"})
	assert.Equal(t, "1:Sofia", got)
}

func TestCompile_KeepsOptionalBlockWhenAvailable(t *testing.T) {
	f, err := format.Parse("{id}:{name}[, nice={is_nice}]")
	require.NoError(t, err)

	compiled, err := f.Compile(map[string]struct{}{"id": {}, "name": {}, "is_nice": {}})
	require.NoError(t, err)

	got := compiled.Render(map[string]string{"id": "1", "name": "Sofia", "is_nice": "true"})
	assert.Equal(t, "1:Sofia, nice=true", got)
}

func TestCompile_MissingRequiredPlaceholderIsKeyError(t *testing.T) {
	f, err := format.Parse("{id}:{name}")
	require.NoError(t, err)

	_, err = f.Compile(map[string]struct{}{"id": {}})
	require.Error(t, err)

	var keyErr *format.KeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, []string{"name"}, keyErr.Missing)
}

func TestEscapedBracketsRenderLiterally(t *testing.T) {
	// Escaping only works away from the very first character: a leading
	// "[" always opens a block, even when doubled, matching the original
	// parser's behavior.
	f, err := format.Parse("a[[b]]{id}")
	require.NoError(t, err)

	compiled, err := f.Compile(map[string]struct{}{"id": {}})
	require.NoError(t, err)

	assert.Equal(t, "a[b]1", compiled.Render(map[string]string{"id": "1"}))
}

func TestOptionalBlockWithNoPlaceholdersIsPromotedToLiteral(t *testing.T) {
	f, err := format.Parse("{id}[literal]")
	require.NoError(t, err)

	assert.Empty(t, f.OptionalPlaceholders())
	assert.ElementsMatch(t, []string{"id"}, f.RequiredPlaceholders())

	compiled, err := f.Compile(map[string]struct{}{"id": {}})
	require.NoError(t, err)
	assert.Equal(t, "1[literal]", compiled.Render(map[string]string{"id": "1"}))
}

func TestUnbalancedBracketIsBadDelimiterError(t *testing.T) {
	_, err := format.Parse("{id}[{name}")
	require.Error(t, err)

	var delimErr *format.BadDelimiterError
	require.ErrorAs(t, err, &delimErr)
}

func TestConversionAndSpec(t *testing.T) {
	f, err := format.Parse("{id!s:.8}:{name!r}")
	require.NoError(t, err)

	compiled, err := f.Compile(map[string]struct{}{"id": {}, "name": {}})
	require.NoError(t, err)

	got := compiled.Render(map[string]string{"id": "550e8400-e29b-41d4", "name": "Sofia"})
	assert.Equal(t, "550e8400:'Sofia'", got)
}

func TestPartial_SubstitutesAndPromotesOptionalBlock(t *testing.T) {
	f, err := format.Parse("{id}[, nice={is_nice}]")
	require.NoError(t, err)

	partial := f.Partial(map[string]string{"is_nice": "true"})
	assert.ElementsMatch(t, []string{"id"}, partial.RequiredPlaceholders())
	assert.Empty(t, partial.OptionalPlaceholders())

	compiled, err := partial.Compile(map[string]struct{}{"id": {}})
	require.NoError(t, err)
	assert.Equal(t, "1, nice=true", compiled.Render(map[string]string{"id": "1"}))
}
