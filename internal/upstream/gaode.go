package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/domain"
	domainrepo "github.com/location-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	gaodePageSize = 25
	gaodeCap      = 1000
)

type gaodeResponse struct {
	Status   string      `json:"status"`
	Info     string      `json:"info"`
	Infocode string      `json:"infocode"`
	Count    string      `json:"count"`
	Pois     []gaodePoi  `json:"pois"`
}

type gaodePoi struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	PName      string `json:"pname"`
	CityName   string `json:"cityname"`
	AdName     string `json:"adname"`
	Type       string `json:"type"`
	Tel        string `json:"tel"`
}

type gaodeDetailResponse struct {
	Status string          `json:"status"`
	Pois   []map[string]any `json:"pois"`
}

type gaodeAOIResponse struct {
	Status string `json:"status"`
	Polyline string `json:"polyline"`
}

type Gaode struct {
	client  *httpClientWrapper
	baseURL string
}

var _ domainrepo.UpstreamClient = (*Gaode)(nil)

func NewGaode(cfg *config.CommonConfig, logger *zap.Logger) (*Gaode, error) {
	hc, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Gaode{
		client: &httpClientWrapper{
			do: func(ctx context.Context, rawURL string, out interface{}) error {
				return doGet(ctx, hc, logger, rawURL, out)
			},
		},
		baseURL: "https://restapi.amap.com",
	}, nil
}

func (g *Gaode) PageSize() int { return gaodePageSize }
func (g *Gaode) Cap() int      { return gaodeCap }

// Search issues either the text-search or polygon-search analogue
// (§6.4: "Gaode has two analogs"), selected the same way as baidu by
// whether region carries a comma (a bounding box).
func (g *Gaode) Search(ctx context.Context, ak, region, keyword string, pageNum int, isBoundingBox bool) (domain.SearchResponse, error) {
	tag, query := domain.SplitKeyword(keyword)

	values := url.Values{}
	values.Set("keywords", query)
	if tag != "" {
		values.Set("types", tag)
	}
	values.Set("page_num", fmt.Sprintf("%d", pageNum+1)) // gaode pages are 1-indexed
	values.Set("page_size", fmt.Sprintf("%d", gaodePageSize))
	values.Set("output", "json")
	values.Set("key", ak)

	var path string
	if isBoundingBox {
		path = "/v5/place/polygon"
		values.Set("polygon", region)
	} else {
		path = "/v5/place/text"
		values.Set("region", region)
		values.Set("city_limit", "true")
	}

	rawURL := fmt.Sprintf("%s%s?%s", g.baseURL, path, values.Encode())

	var resp gaodeResponse
	if err := g.client.do(ctx, rawURL, &resp); err != nil {
		return domain.SearchResponse{}, err
	}

	total, _ := strconv.Atoi(resp.Count)
	results := make([]domain.RawResult, 0, len(resp.Pois))
	for _, p := range resp.Pois {
		lng, lat := parseGaodeLocation(p.Location)
		results = append(results, domain.RawResult{
			UID:       p.ID,
			Name:      p.Name,
			Lng:       lng,
			Lat:       lat,
			Province:  p.PName,
			Area:      p.CityName,
			District:  p.AdName,
			Tag:       p.Type,
			Telephone: p.Tel,
		})
	}

	return domain.SearchResponse{
		Status:  gaodeStatusOf(resp.Status, resp.Infocode),
		Total:   total,
		Results: results,
	}, nil
}

func (g *Gaode) Detail(ctx context.Context, ak, uid string) (string, error) {
	values := url.Values{}
	values.Set("id", uid)
	values.Set("output", "json")
	values.Set("key", ak)
	rawURL := fmt.Sprintf("%s/v5/place/detail?%s", g.baseURL, values.Encode())

	var resp gaodeDetailResponse
	if err := g.client.do(ctx, rawURL, &resp); err != nil {
		return "", err
	}
	if len(resp.Pois) == 0 {
		return "", nil
	}
	return attributeFromDetail(resp.Pois[0]), nil
}

func (g *Gaode) AOI(ctx context.Context, ak, uid string) (string, error) {
	values := url.Values{}
	values.Set("id", uid)
	values.Set("output", "json")
	values.Set("key", ak)
	rawURL := fmt.Sprintf("%s/v5/place/aoi?%s", g.baseURL, values.Encode())

	var resp gaodeAOIResponse
	if err := g.client.do(ctx, rawURL, &resp); err != nil {
		return "", err
	}
	return resp.Polyline, nil
}

func parseGaodeLocation(loc string) (lng, lat float64) {
	parts := strings.SplitN(loc, ",", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	lng, _ = strconv.ParseFloat(parts[0], 64)
	lat, _ = strconv.ParseFloat(parts[1], 64)
	return lng, lat
}

// gaodeStatusOf maps gaode's status/infocode pair onto the normalized
// UpstreamStatus enum, per the original claw_gaode_poi infocode branches:
// 10003 is quota exhaustion, 10005 is an IP-bound AK rejection, 10002 is a
// malformed-parameter request, and 10014 is the concurrency cap (retryable,
// credential retained).
func gaodeStatusOf(status, infocode string) domain.UpstreamStatus {
	if status == "1" {
		return domain.StatusSuccess
	}
	switch infocode {
	case "10003":
		return domain.StatusQuotaExhausted
	case "10005":
		return domain.StatusIPRejected
	case "10002":
		return domain.StatusBadRequest
	case "10014":
		return domain.StatusRateLimited
	default:
		return domain.StatusOther
	}
}
