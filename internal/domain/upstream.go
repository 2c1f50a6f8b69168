package domain

// UpstreamStatus is the crawler's normalized view of an upstream response's
// status/infocode field (§4.6's status table), shared by both the baidu and
// gaode flavors of the worker.
type UpstreamStatus int

const (
	StatusSuccess UpstreamStatus = iota
	StatusQuotaExhausted
	StatusIPRejected
	StatusRateLimited
	StatusBadRequest
	StatusOther
)

func (s UpstreamStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusQuotaExhausted:
		return "quota_exhausted"
	case StatusIPRejected:
		return "ip_rejected"
	case StatusRateLimited:
		return "rate_limited"
	case StatusBadRequest:
		return "bad_request"
	default:
		return "other"
	}
}

// RawResult is one upstream search-result record, normalized across the
// baidu/gaode response shapes before enrichment.
type RawResult struct {
	UID       string
	Name      string
	Lng, Lat  float64
	Province  string
	Area      string
	District  string
	Tag       string
	Telephone string
}

// SearchResponse is the normalized decode of a region/bbox search call.
type SearchResponse struct {
	Status  UpstreamStatus
	Total   int
	Results []RawResult
}
