package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWGS84GCJ02RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		lng, lat float64
	}{
		{"beijing", 116.404, 39.915},
		{"shanghai", 121.473, 31.230},
		{"out of china", -122.084, 37.422},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			glng, glat := WGS84ToGCJ02(tt.lng, tt.lat)
			lng, lat := GCJ02ToWGS84(glng, glat)
			assert.InDelta(t, tt.lng, lng, 1e-3)
			assert.InDelta(t, tt.lat, lat, 1e-3)
		})
	}
}

func TestOutOfChinaIsIdentity(t *testing.T) {
	lng, lat := WGS84ToGCJ02(-122.084, 37.422)
	assert.Equal(t, -122.084, lng)
	assert.Equal(t, 37.422, lat)
}

func TestBD09GCJ02RoundTrip(t *testing.T) {
	lng, lat := 116.404, 39.915
	blng, blat := GCJ02ToBD09(lng, lat)
	gLng, gLat := BD09ToGCJ02(blng, blat)
	assert.InDelta(t, lng, gLng, 1e-6)
	assert.InDelta(t, lat, gLat, 1e-6)
}

func TestWebMercatorBD09AreTrueInverses(t *testing.T) {
	x, y := 12958325.0, 4825923.0

	blng, blat := WebMercatorToBD09(x, y)
	rx, ry := BD09ToWebMercator(blng, blat)

	assert.InDelta(t, x, rx, 1.0)
	assert.InDelta(t, y, ry, 1.0)
}

func TestWebMercatorWGS84RoundTrip(t *testing.T) {
	lon, lat := 116.404, 39.915
	x, y := WGS84ToWebMercator(lon, lat)
	rlon, rlat := WebMercatorToWGS84(x, y)
	assert.InDelta(t, lon, rlon, 1e-6)
	assert.InDelta(t, lat, rlat, 1e-4)
}

func TestTransformIdentity(t *testing.T) {
	fn, err := Transform(BD09, BD09)
	assert.NoError(t, err)
	lng, lat := fn(1, 2)
	assert.Equal(t, 1.0, lng)
	assert.Equal(t, 2.0, lat)
}

func TestTransformComposesThroughAllPairs(t *testing.T) {
	projections := []Projection{WGS84, GCJ02, BD09, WebMercator}
	for _, from := range projections {
		for _, to := range projections {
			fn, err := Transform(from, to)
			assert.NoError(t, err, "%s -> %s", from, to)
			assert.NotNil(t, fn)
		}
	}
}

func TestConvertMercatorToBD09SelectsBandByRawLat(t *testing.T) {
	lng, lat, err := ConvertMercatorToBD09(12958325.0, 4825923.0)
	assert.NoError(t, err)
	assert.NotZero(t, lng)
	assert.NotZero(t, lat)
}

func TestConvertMercatorToBD09NegativeLatNoBandMatches(t *testing.T) {
	_, _, err := ConvertMercatorToBD09(0, -1000000)
	assert.Error(t, err, "band selection compares raw lat, so no band threshold is ever <= a negative lat")
}

func TestRound6(t *testing.T) {
	assert.Equal(t, 1.123457, Round6(1.1234567))
	assert.Equal(t, 1.0, Round6(0.9999999))
}
