// Package domain holds the crawler's core entities: the PoiRecord that
// flows from an upstream search result to a Poi-table row, and the task
// item that flows through the task-queue.
package domain

import "fmt"

// PoiRecord is one unique point of interest, fully enriched (§3). Field
// names match the Poi-table column names and the result-queue's serialized
// form exactly.
type PoiRecord struct {
	UID       string `json:"uid"`
	Poi       string `json:"poi"`
	Name      string `json:"name"`
	Geohash   string `json:"geohash"`
	Province  string `json:"province"`
	Area      string `json:"area"`
	District  string `json:"district"`
	Tag       string `json:"tag"`
	Telephone string `json:"telephone"`
	AOI       string `json:"aoi,omitempty"`
	Attribute string `json:"attribute,omitempty"`
}

// Point renders the POINT(lon lat) WKT text form, six-decimal rounded, as
// required by §3's "poi" field.
func Point(lon, lat float64) string {
	return fmt.Sprintf("POINT(%.6f %.6f)", lon, lat)
}

// Columns lists the Poi-table columns in a stable order, used by the store
// repository to build the INSERT statement (§6.2).
var Columns = []string{
	"uid", "poi", "name", "geohash", "province", "area", "district",
	"tag", "telephone", "aoi", "attribute",
}
