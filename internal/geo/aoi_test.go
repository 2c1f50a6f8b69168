package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAOIType1SingleRing(t *testing.T) {
	raw := "1|bounds-token|100,200,110,200,110,210,100,210"
	rings, bounds, err := ParseAOI(raw)
	require.NoError(t, err)
	assert.Equal(t, "bounds-token", bounds)
	require.Len(t, rings, 1)
	assert.Len(t, rings[0], 4)
}

func TestParseAOIType4KeepsOnlyPrefixedOneRings(t *testing.T) {
	raw := "4|bounds|1-100,200,110,200,110,210;0-300,400,310,400,310,410"
	rings, _, err := ParseAOI(raw)
	require.NoError(t, err)
	require.Len(t, rings, 1, "only the ring prefixed 1- should survive")
	assert.Equal(t, [2]float64{100, 200}, rings[0][0])
}

func TestParseAOIMalformedReturnsAOIDecodeFailed(t *testing.T) {
	_, _, err := ParseAOI("not-enough-pipes")
	assert.Error(t, err)
}

func TestParseAOIOddCoordinateCountFails(t *testing.T) {
	_, _, err := ParseAOI("1|bounds|100,200,110")
	assert.Error(t, err)
}

func TestProjectRingClosesOpenRing(t *testing.T) {
	m := Ring{{12958325, 4825923}, {12958400, 4825923}, {12958400, 4826000}}
	ring, err := ProjectRing(m)
	require.NoError(t, err)
	assert.Equal(t, ring[0], ring[len(ring)-1], "ProjectRing must close the ring")
}

func TestFoldRingsEmpty(t *testing.T) {
	assert.Nil(t, FoldRings(nil))
}

func TestDecodeAOIWKTEmptyPayload(t *testing.T) {
	wkt, err := DecodeAOIWKT("")
	require.NoError(t, err)
	assert.Empty(t, wkt)
}

func TestDecodeAOIWKTSingleRing(t *testing.T) {
	raw := "1|bounds|12958325,4825923,12958400,4825923,12958400,4826000,12958325,4826000"
	wktStr, err := DecodeAOIWKT(raw)
	require.NoError(t, err)
	assert.Contains(t, wktStr, "POLYGON")
}
