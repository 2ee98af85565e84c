package idtype_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/id-translation/idtype"
)

func TestIdentifier_Canonical_UUIDCaseInsensitive(t *testing.T) {
	u := uuid.New()
	lower := idtype.String(u.String())
	upper := idtype.String(strings.ToUpper(u.String()))

	a := lower.Canonical()
	b := upper.Canonical()

	assert.Equal(t, idtype.KindUUID, a.Kind())
	assert.Equal(t, a, b)
}

func TestIdentifier_Canonical_NonUUIDStringUnchanged(t *testing.T) {
	id := idtype.String("not-a-uuid")
	require.Equal(t, id, id.Canonical())
	assert.Equal(t, idtype.KindString, id.Canonical().Kind())
}

func TestCardinality_ParseAndBounds(t *testing.T) {
	c, err := idtype.ParseCardinality("1:N")
	require.NoError(t, err)
	assert.True(t, c.BoundsRightToOne())
	assert.False(t, c.BoundsLeftToOne())

	_, err = idtype.ParseCardinality("bogus")
	assert.Error(t, err)
}

func TestValue_StringRendering(t *testing.T) {
	assert.Equal(t, "1", idtype.NewInt64(1).String())
	assert.Equal(t, "", idtype.Null.String())
	assert.Equal(t, "true", idtype.NewBool(true).String())
}
