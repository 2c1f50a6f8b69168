package geo

import (
	"github.com/mmcloughlin/geohash"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// CellPolygon returns the rectangle a geohash string covers, as a closed
// ring ordered [lon,lat] (C2, §4.2).
func CellPolygon(hash string) orb.Polygon {
	box := geohash.BoundingBox(hash)
	ring := orb.Ring{
		{box.MinLng, box.MinLat},
		{box.MaxLng, box.MinLat},
		{box.MaxLng, box.MaxLat},
		{box.MinLng, box.MaxLat},
		{box.MinLng, box.MinLat},
	}
	return orb.Polygon{ring}
}

// seedHash picks a deterministic starting cell for the BFS below: the
// geohash of the polygon bound's SW corner.
func seedHash(polygon orb.Polygon, precision uint) string {
	min := polygon.Bound().Min
	return geohash.EncodeWithPrecision(min[1], min[0], precision)
}

// segmentsIntersect reports whether segments p1p2 and p3p4 cross, using the
// standard orientation test (handles the collinear/touching cases as a
// miss, which is acceptable for the coarse inner/intersect partition below).
func segmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	d1 := cross(p4, p3, p1)
	d2 := cross(p4, p3, p2)
	d3 := cross(p2, p1, p3)
	d4 := cross(p2, p1, p4)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// ringsIntersect reports whether any edge of a crosses any edge of b.
func ringsIntersect(a, b orb.Ring) bool {
	for i := 0; i < len(a)-1; i++ {
		for j := 0; j < len(b)-1; j++ {
			if segmentsIntersect(a[i], a[i+1], b[j], b[j+1]) {
				return true
			}
		}
	}
	return false
}

// polygonIntersectsCell reports whether polygon and cell share any area:
// either one contains a vertex of the other, or their boundaries cross.
// orb/planar has no polygon-polygon predicate, so this composes
// planar.PolygonContains (vertex containment) with a manual edge-crossing
// scan, which is enough for the axis-aligned rectangles geohash cells are.
func polygonIntersectsCell(polygon orb.Polygon, cell orb.Polygon) bool {
	for _, pt := range cell[0] {
		if planar.PolygonContains(polygon, pt) {
			return true
		}
	}
	for _, pt := range polygon[0] {
		if planar.PolygonContains(cell, pt) {
			return true
		}
	}
	return ringsIntersect(polygon[0], cell[0])
}

// polygonContainsCell reports whether every corner of cell lies inside
// polygon. Geohash cells are small axis-aligned rectangles, so corner
// containment is a faithful proxy for full containment at the precisions
// this package deals with.
func polygonContainsCell(polygon orb.Polygon, cell orb.Polygon) bool {
	for _, pt := range cell[0] {
		if !planar.PolygonContains(polygon, pt) {
			return false
		}
	}
	return true
}

// PolygonToMultiLengthGeohashes tiles polygon at a fixed precision,
// returning the set of cells it fully contains and the set it merely
// intersects (C2). It BFS-walks from a seed cell through geohash.Neighbors,
// stopping the walk at cells that miss the polygon entirely.
func PolygonToMultiLengthGeohashes(polygon orb.Polygon, precision uint) (inner, intersecting map[string]struct{}) {
	inner = make(map[string]struct{})
	intersecting = make(map[string]struct{})
	visited := make(map[string]struct{})

	queue := []string{seedHash(polygon, precision)}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}

		cell := CellPolygon(current)
		if !polygonIntersectsCell(polygon, cell) {
			continue
		}
		if polygonContainsCell(polygon, cell) {
			inner[current] = struct{}{}
		} else {
			intersecting[current] = struct{}{}
		}
		for _, neighbor := range geohash.Neighbors(current) {
			if _, seen := visited[neighbor]; !seen {
				queue = append(queue, neighbor)
			}
		}
	}
	return inner, intersecting
}

const geohashAlphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// refineIntersecting recurses one precision level at a time under a single
// intersecting cell, keeping children polygon fully contains and
// re-recursing children it merely intersects, until stopPrecision is
// reached. At stopPrecision an intersecting child is kept only if
// keepIntersecting is set.
func refineIntersecting(res map[string]struct{}, cellHash string, polygon orb.Polygon, precision, stopPrecision uint, keepIntersecting bool) {
	precision++
	for i := 0; i < len(geohashAlphabet); i++ {
		child := cellHash + string(geohashAlphabet[i])
		childCell := CellPolygon(child)
		switch {
		case polygonContainsCell(polygon, childCell):
			res[child] = struct{}{}
		case polygonIntersectsCell(polygon, childCell):
			if precision == stopPrecision {
				if keepIntersecting {
					res[child] = struct{}{}
				}
			} else {
				refineIntersecting(res, child, polygon, precision, stopPrecision, keepIntersecting)
			}
		}
	}
}

// PolygonGeohasher covers polygon with as few geohash cells as possible
// between startPrecision and stopPrecision (C2, §4.2): it tiles coarse
// first, keeps fully-contained cells as-is, and only refines the cells
// straddling the boundary to finer precision. A polygon smaller than one
// coarse cell shows up as a boundary cell and is refined like any other. If
// the coarse pass finds no boundary cells at all, it retries one precision
// finer rather than giving up.
func PolygonGeohasher(polygon orb.Polygon, startPrecision, stopPrecision uint, keepIntersecting bool) map[string]struct{} {
	res := make(map[string]struct{})
	inner, intersecting := PolygonToMultiLengthGeohashes(polygon, startPrecision)

	if startPrecision == stopPrecision {
		if keepIntersecting {
			for h := range intersecting {
				inner[h] = struct{}{}
			}
		}
		return inner
	}

	if len(intersecting) > 0 {
		for h := range inner {
			res[h] = struct{}{}
		}
		for h := range intersecting {
			refineIntersecting(res, h, polygon, startPrecision, stopPrecision, keepIntersecting)
		}
		return res
	}

	return PolygonGeohasher(polygon, startPrecision+1, stopPrecision, keepIntersecting)
}
