package repository

import (
	"context"

	"github.com/location-microservice/internal/domain"
)

// UpstreamClient is the crawler's view of one data source's HTTP surface
// (§6.4): region-name search, bounding-box search, detail-by-uid and
// AOI-by-uid. Baidu and gaode each implement this with their own URL
// templates, page size (20 vs 25) and cap (400 vs 1000).
type UpstreamClient interface {
	PageSize() int
	Cap() int

	// Search issues either the region-name or bounding-box endpoint,
	// selected by the caller via isBoundingBox (region contains a comma,
	// §4.6). keyword is passed through as given by the caller (bare query,
	// or "TAG;QUERY" for gaode).
	Search(ctx context.Context, ak, region, keyword string, pageNum int, isBoundingBox bool) (domain.SearchResponse, error)

	// Detail fetches the sensitivity-category attribute subfield for uid.
	Detail(ctx context.Context, ak, uid string) (attribute string, err error)

	// AOI fetches and decodes the AOI polygon for uid, returning WGS-84 WKT.
	AOI(ctx context.Context, ak, uid string) (wkt string, err error)
}
