package geo

import (
	"testing"

	"github.com/mmcloughlin/geohash"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squarePolygon(minLng, minLat, maxLng, maxLat float64) orb.Polygon {
	ring := orb.Ring{
		{minLng, minLat},
		{maxLng, minLat},
		{maxLng, maxLat},
		{minLng, maxLat},
		{minLng, minLat},
	}
	return orb.Polygon{ring}
}

func TestCellPolygonMatchesGeohashBounds(t *testing.T) {
	hash := geohash.EncodeWithPrecision(39.915, 116.404, 6)
	poly := CellPolygon(hash)
	box := geohash.BoundingBox(hash)

	require.Len(t, poly, 1)
	assert.Equal(t, box.MinLng, poly[0][0][0])
	assert.Equal(t, box.MinLat, poly[0][0][1])
}

func TestPolygonToMultiLengthGeohashesCoversSeedCell(t *testing.T) {
	seedHash := geohash.EncodeWithPrecision(39.915, 116.404, 5)
	box := geohash.BoundingBox(seedHash)
	poly := squarePolygon(box.MinLng, box.MinLat, box.MaxLng, box.MaxLat)

	inner, intersecting := PolygonToMultiLengthGeohashes(poly, 5)

	_, innerHasSeed := inner[seedHash]
	_, intersectingHasSeed := intersecting[seedHash]
	assert.True(t, innerHasSeed || intersectingHasSeed, "the seed cell itself must appear in one of the two sets")
}

func TestPolygonGeohasherCoversPolygonSmallerThanOneCell(t *testing.T) {
	center := geohash.EncodeWithPrecision(39.915, 116.404, 7)
	box := geohash.BoundingBox(center)
	midLng := (box.MinLng + box.MaxLng) / 2
	midLat := (box.MinLat + box.MaxLat) / 2
	tiny := squarePolygon(midLng-0.0000001, midLat-0.0000001, midLng+0.0000001, midLat+0.0000001)

	cells := PolygonGeohasher(tiny, 3, 8, true)
	assert.NotEmpty(t, cells, "a polygon smaller than the coarsest cell must still yield coverage")
}

func TestPolygonGeohasherSamePrecisionReturnsInnerOnly(t *testing.T) {
	seedHash := geohash.EncodeWithPrecision(39.915, 116.404, 5)
	box := geohash.BoundingBox(seedHash)
	poly := squarePolygon(box.MinLng, box.MinLat, box.MaxLng, box.MaxLat)

	withoutIntersecting := PolygonGeohasher(poly, 5, 5, false)
	withIntersecting := PolygonGeohasher(poly, 5, 5, true)

	assert.LessOrEqual(t, len(withoutIntersecting), len(withIntersecting))
}

func TestPolygonGeohasherRefinesToStopPrecision(t *testing.T) {
	poly := squarePolygon(116.3, 39.8, 116.5, 40.0)
	cells := PolygonGeohasher(poly, 4, 6, true)
	for cell := range cells {
		assert.LessOrEqual(t, len(cell), 6)
	}
}
