package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects the task seeder's region-enumeration strategy (§4.5).
type Mode string

const (
	ModeCity Mode = "city"
	ModeGrid Mode = "grid"
)

// Nationwide is the sentinel region name that expands to every configured
// city.
const Nationwide = "*"

// Task is one REGION#KEYWORD work item (§3). Region is either a bare name
// or a "minLat,minLon,maxLat,maxLon" bounding box; Keyword is either a bare
// query or "TAG;QUERY".
type Task struct {
	Region  string
	Keyword string
}

func (t Task) String() string {
	return t.Region + "#" + t.Keyword
}

// ParseTask splits a raw task-queue item back into its region and keyword.
func ParseTask(raw string) (Task, error) {
	parts := strings.SplitN(raw, "#", 2)
	if len(parts) != 2 {
		return Task{}, fmt.Errorf("malformed task item: %q", raw)
	}
	return Task{Region: parts[0], Keyword: parts[1]}, nil
}

// IsBoundingBox reports whether Region is a "minLat,minLon,maxLat,maxLon"
// box rather than a named region, per §4.6's comma test.
func (t Task) IsBoundingBox() bool {
	return strings.Contains(t.Region, ",")
}

// BBox is a decoded "minLat,minLon,maxLat,maxLon" bounding box.
type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

func ParseBBox(region string) (BBox, error) {
	parts := strings.Split(region, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("malformed bounding box: %q", region)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("malformed bounding box component %q: %w", p, err)
		}
		vals[i] = v
	}
	return BBox{MinLat: vals[0], MinLon: vals[1], MaxLat: vals[2], MaxLon: vals[3]}, nil
}

func (b BBox) String() string {
	return fmt.Sprintf("%v,%v,%v,%v", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}

// Quadrants splits b into its SW/NW/NE/SE quadrants on mid-lat/mid-lon,
// exactly as §4.6 specifies for cap-hit subdivision.
func (b BBox) Quadrants() (sw, nw, ne, se BBox) {
	midLat := (b.MinLat + b.MaxLat) / 2
	midLon := (b.MinLon + b.MaxLon) / 2
	sw = BBox{MinLat: b.MinLat, MinLon: b.MinLon, MaxLat: midLat, MaxLon: midLon}
	nw = BBox{MinLat: midLat, MinLon: b.MinLon, MaxLat: b.MaxLat, MaxLon: midLon}
	ne = BBox{MinLat: midLat, MinLon: midLon, MaxLat: b.MaxLat, MaxLon: b.MaxLon}
	se = BBox{MinLat: b.MinLat, MinLon: midLon, MaxLat: midLat, MaxLon: b.MaxLon}
	return sw, nw, ne, se
}

// SplitKeyword splits a "TAG;QUERY" keyword into its tag and query parts;
// if there is no ';', tag is empty and query is the keyword verbatim (used
// by the gaode flavor of the worker, §4.6).
func SplitKeyword(keyword string) (tag, query string) {
	if idx := strings.Index(keyword, ";"); idx >= 0 {
		return keyword[:idx], keyword[idx+1:]
	}
	return "", keyword
}
