package upstream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/domain"
	domainrepo "github.com/location-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	baiduPageSize = 20
	baiduCap      = 400
)

// baiduResponse is the search response envelope. Field names follow the documented
// {status,total,results:[...]} shape (§6.4); the specific JSON keys are
// ecosystem-defined, only status/cap semantics are load-bearing.
type baiduResponse struct {
	Status  int           `json:"status"`
	Message string        `json:"message"`
	Total   int           `json:"total"`
	Results []baiduResult `json:"results"`
}

type baiduResult struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Location struct {
		Lng float64 `json:"lng"`
		Lat float64 `json:"lat"`
	} `json:"location"`
	Province   string `json:"province"`
	City       string `json:"city"`
	Area       string `json:"area"`
	Telephone  string `json:"telephone"`
	DetailInfo struct {
		Tag string `json:"tag"`
	} `json:"detail_info"`
}

type baiduDetailResponse struct {
	Status int `json:"status"`
	Result struct {
		DetailInfo map[string]interface{} `json:"detail_info"`
	} `json:"result"`
}

type baiduAOIResponse struct {
	Status  int    `json:"status"`
	Content string `json:"content"`
}

type Baidu struct {
	client  *httpClientWrapper
	baseURL string
}

type httpClientWrapper struct {
	do func(ctx context.Context, rawURL string, out interface{}) error
}

var _ domainrepo.UpstreamClient = (*Baidu)(nil)

func NewBaidu(cfg *config.CommonConfig, logger *zap.Logger) (*Baidu, error) {
	hc, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Baidu{
		client: &httpClientWrapper{
			do: func(ctx context.Context, rawURL string, out interface{}) error {
				return doGet(ctx, hc, logger, rawURL, out)
			},
		},
		baseURL: "https://api.map.baidu.com",
	}, nil
}

func (b *Baidu) PageSize() int { return baiduPageSize }
func (b *Baidu) Cap() int      { return baiduCap }

func (b *Baidu) Search(ctx context.Context, ak, region, keyword string, pageNum int, isBoundingBox bool) (domain.SearchResponse, error) {
	values := url.Values{}
	values.Set("query", keyword)
	values.Set("page_num", fmt.Sprintf("%d", pageNum))
	values.Set("page_size", fmt.Sprintf("%d", baiduPageSize))
	values.Set("output", "json")
	values.Set("ak", ak)

	var path string
	if isBoundingBox {
		path = "/place/v2/search"
		values.Set("bounds", region)
	} else {
		path = "/place/v2/search"
		values.Set("region", region)
	}

	rawURL := fmt.Sprintf("%s%s?%s", b.baseURL, path, values.Encode())

	var resp baiduResponse
	if err := b.client.do(ctx, rawURL, &resp); err != nil {
		return domain.SearchResponse{}, err
	}

	results := make([]domain.RawResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, domain.RawResult{
			UID:       r.UID,
			Name:      r.Name,
			Lng:       r.Location.Lng,
			Lat:       r.Location.Lat,
			Province:  r.Province,
			Area:      r.City,
			District:  r.Area,
			Tag:       r.DetailInfo.Tag,
			Telephone: r.Telephone,
		})
	}

	return domain.SearchResponse{
		Status:  baiduStatusOf(resp.Status),
		Total:   resp.Total,
		Results: results,
	}, nil
}

func (b *Baidu) Detail(ctx context.Context, ak, uid string) (string, error) {
	values := url.Values{}
	values.Set("uid", uid)
	values.Set("output", "json")
	values.Set("ak", ak)
	rawURL := fmt.Sprintf("%s/place/v2/detail?%s", b.baseURL, values.Encode())

	var resp baiduDetailResponse
	if err := b.client.do(ctx, rawURL, &resp); err != nil {
		return "", err
	}
	return attributeFromDetail(resp.Result.DetailInfo), nil
}

func (b *Baidu) AOI(ctx context.Context, ak, uid string) (string, error) {
	values := url.Values{}
	values.Set("uid", uid)
	values.Set("output", "json")
	values.Set("ak", ak)
	rawURL := fmt.Sprintf("%s/place/v2/getpoiaoi?%s", b.baseURL, values.Encode())

	var resp baiduAOIResponse
	if err := b.client.do(ctx, rawURL, &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}

// baiduStatusOf maps baidu's numeric status field (0 == success) onto the
// normalized UpstreamStatus enum (§4.6's status table), per the original
// claw_by_region status branches: 302 is quota exhaustion, 210 is an
// IP-bound AK rejection, 2 is a malformed-parameter request, and 401 is
// the concurrency cap (retryable, credential retained).
func baiduStatusOf(status int) domain.UpstreamStatus {
	switch status {
	case 0:
		return domain.StatusSuccess
	case 302:
		return domain.StatusQuotaExhausted
	case 210:
		return domain.StatusIPRejected
	case 2:
		return domain.StatusBadRequest
	case 401:
		return domain.StatusRateLimited
	default:
		return domain.StatusOther
	}
}

// attributeFromDetail extracts the sensitivity-category attribute subfield
// (§4.6's parsePoi) from whichever key the detail payload carries it under.
func attributeFromDetail(detail map[string]interface{}) string {
	for _, key := range []string{"tourism_attr", "medical_attr", "edu_attr", "overall_rating"} {
		if v, ok := detail[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
