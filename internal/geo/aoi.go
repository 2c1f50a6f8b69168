package geo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/location-microservice/internal/pkg/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/planar"
)

// Ring is one AOI ring as raw web-Mercator x,y pairs, in upstream order.
type Ring [][2]float64

// ParseAOI decodes the upstream AOI wire format (C3, §4.3):
//
//	TYPE|BOUNDS|RING1;RING2;...
//
// Each ring is a flat comma-separated list of interleaved web-Mercator
// x,y pairs. When TYPE=4 each ring token additionally carries a `1-` or
// `0-` prefix; only rings prefixed `1` are kept. TYPE=1 means there is
// exactly one ring and it is passed through unchanged. Returns the
// decoded rings (still in web-Mercator) and the bounds token verbatim.
func ParseAOI(raw string) (rings []Ring, bounds string, err error) {
	items := strings.SplitN(raw, "|", 3)
	if len(items) != 3 {
		return nil, "", errors.ErrAOIDecodeFailed.WithDetails(map[string]interface{}{"raw": raw})
	}
	typ, err := strconv.Atoi(items[0])
	if err != nil {
		return nil, "", errors.ErrAOIDecodeFailed.WithDetails(map[string]interface{}{"type": items[0]})
	}
	bounds = items[1]
	tokens := strings.Split(strings.TrimSuffix(items[2], ";"), ";")

	if typ == 4 {
		kept := make([]string, 0, len(tokens))
		for _, tok := range tokens {
			parts := strings.SplitN(tok, "-", 2)
			if len(parts) == 2 && parts[0] == "1" {
				kept = append(kept, parts[1])
			}
		}
		tokens = kept
	}
	if typ == 1 {
		if len(tokens) == 0 {
			return nil, "", errors.ErrAOIDecodeFailed.WithDetails(map[string]interface{}{"raw": raw})
		}
		tokens = tokens[:1]
	}

	rings = make([]Ring, 0, len(tokens))
	for _, tok := range tokens {
		ring, perr := parseRing(tok)
		if perr != nil {
			return nil, "", perr
		}
		rings = append(rings, ring)
	}
	return rings, bounds, nil
}

func parseRing(tok string) (Ring, error) {
	if tok == "" {
		return nil, nil
	}
	coords := strings.Split(tok, ",")
	if len(coords)%2 != 0 {
		return nil, errors.ErrAOIDecodeFailed.WithDetails(map[string]interface{}{"ring": tok})
	}
	ring := make(Ring, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		x, err := strconv.ParseFloat(coords[i], 64)
		if err != nil {
			return nil, errors.ErrAOIDecodeFailed.WithDetails(map[string]interface{}{"x": coords[i]})
		}
		y, err := strconv.ParseFloat(coords[i+1], 64)
		if err != nil {
			return nil, errors.ErrAOIDecodeFailed.WithDetails(map[string]interface{}{"y": coords[i+1]})
		}
		ring = append(ring, [2]float64{x, y})
	}
	return ring, nil
}

// ProjectRing converts a web-Mercator ring to a closed WGS-84 orb.Ring,
// via the ConvertMercatorToBD09 band polynomial followed by BD09->WGS84
// (the AOI pipeline projects straight off the raw Mercator AOI coordinates,
// distinct from the composed Transform(WebMercator, WGS84) used elsewhere).
func ProjectRing(m Ring) (orb.Ring, error) {
	ring := make(orb.Ring, 0, len(m)+1)
	for _, xy := range m {
		bdLon, bdLat, err := ConvertMercatorToBD09(xy[0], xy[1])
		if err != nil {
			return nil, err
		}
		lon, lat := BD09ToWGS84(bdLon, bdLat)
		ring = append(ring, orb.Point{Round6(lon), Round6(lat)})
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring, nil
}

// FoldRings folds a sequence of already-WGS-84 rings into one working
// polygon (§4.3): starting from ring 1, each subsequent ring either cuts
// the working polygon (if it overlaps) or adds to it (if it doesn't).
// orb/planar exposes point-in-polygon but not ring boolean ops, so the
// fold is approximated with polygon-set membership: a ring "cuts" (is
// appended as a hole) when any one of its vertices lies in the working
// polygon or any of its edges crosses the working polygon's outer ring,
// and otherwise is unioned in as an additional
// ring of the resulting (possibly multi-ring) polygon.
func FoldRings(rings []orb.Ring) orb.Polygon {
	if len(rings) == 0 {
		return nil
	}
	working := orb.Polygon{rings[0]}
	for _, ring := range rings[1:] {
		if ringOverlapsPolygon(working, ring) {
			working = append(working, ring)
		} else {
			working = append(orb.Polygon{ring}, working...)
		}
	}
	return working
}

func ringOverlapsPolygon(polygon orb.Polygon, ring orb.Ring) bool {
	for _, pt := range ring {
		if planar.PolygonContains(polygon, pt) {
			return true
		}
	}
	return ringsIntersect(polygon[0], ring)
}

// ToWKT renders polygon as upstream-facing WKT (§4.3's "emitted as WKT").
func ToWKT(polygon orb.Polygon) string {
	if len(polygon) == 0 {
		return ""
	}
	return wkt.MarshalString(polygon)
}

// DecodeAOIWKT is the end-to-end C3 entry point the crawler usecase
// calls: decode raw, project every ring to WGS-84, fold, and emit WKT.
// Returns "" with a nil error when the upstream AOI payload is empty.
func DecodeAOIWKT(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	mercatorRings, _, err := ParseAOI(raw)
	if err != nil {
		return "", err
	}
	if len(mercatorRings) == 0 {
		return "", nil
	}
	projected := make([]orb.Ring, 0, len(mercatorRings))
	for _, r := range mercatorRings {
		wgsRing, err := ProjectRing(r)
		if err != nil {
			return "", fmt.Errorf("project aoi ring: %w", err)
		}
		projected = append(projected, wgsRing)
	}
	return ToWKT(FoldRings(projected)), nil
}
