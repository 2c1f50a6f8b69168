package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/domain"
	domainrepo "github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/geo"
	"github.com/location-microservice/internal/pkg/errors"
	"github.com/location-microservice/internal/pkg/metrics"
	"github.com/location-microservice/internal/worker"
	"github.com/mmcloughlin/geohash"
	"go.uber.org/zap"
)

const (
	emptyQueuePoll  = 60 * time.Second
	transientSleep  = 5 * time.Second
	sensitivityTour = "tourism"
	sensitivityMed  = "medical"
	sensitivityEdu  = "higher-ed"
)

var sensitiveCategories = map[string]bool{
	sensitivityTour: true,
	sensitivityMed:  true,
	sensitivityEdu:  true,
}

// crawlFrame is one unit of the iterative work-stack that replaces the
// reference design's recursion for page advance and quadrant subdivision
// (§9 redesign note). pageNums is nil until the first successful response
// for a region fixes it; it is threaded unchanged across page-advance
// frames for that same region, and reset to nil for every subdivision
// child (§5: "total and pageNums are computed once per region").
type crawlFrame struct {
	region   string
	keyword  string
	pageNum  int
	pageNums *int
}

// Source distinguishes the upstream-specific projection and pagination
// convention a CrawlerWorker was built against.
type Source string

const (
	SourceBaidu Source = "baidu"
	SourceGaode Source = "gaode"
)

// CrawlerWorker is C7: it pulls tasks off the shared task-queue, issues
// upstream requests, subdivides on overflow, enriches and dedups results,
// and hands finished records to the result-queue for C8 to persist.
type CrawlerWorker struct {
	*worker.BaseWorker
	coord      domainrepo.CoordinationStore
	upstream   domainrepo.UpstreamClient
	source     Source
	categories config.CategoryConfig
	updateMode bool
}

var _ worker.Worker = (*CrawlerWorker)(nil)

func NewCrawlerWorker(
	name string,
	coord domainrepo.CoordinationStore,
	upstream domainrepo.UpstreamClient,
	source Source,
	categories config.CategoryConfig,
	updateMode bool,
	logger *zap.Logger,
) *CrawlerWorker {
	return &CrawlerWorker{
		BaseWorker: worker.NewBaseWorker(name, "", logger),
		coord:      coord,
		upstream:   upstream,
		source:     source,
		categories: categories,
		updateMode: updateMode,
	}
}

// Start is the worker's outer loop (§4.6 step 1-3): poll for credentials
// and work, pop one task, and run it to completion before polling again.
func (w *CrawlerWorker) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.StopChan():
			return nil
		default:
		}

		count, err := w.coord.CredentialCount(ctx)
		if err != nil {
			w.Logger().Error("credential count failed", zap.Error(err))
			if w.sleep(ctx, transientSleep) {
				return nil
			}
			continue
		}
		if count == 0 {
			w.Logger().Debug("polling empty AK-set", zap.Error(errors.ErrCredentialsExhausted))
			if w.sleep(ctx, emptyQueuePoll) {
				return nil
			}
			continue
		}

		qlen, err := w.coord.TaskQueueLen(ctx)
		if err != nil {
			w.Logger().Error("task queue length failed", zap.Error(err))
			if w.sleep(ctx, transientSleep) {
				return nil
			}
			continue
		}
		if qlen == 0 {
			w.Logger().Debug("polling empty task-queue", zap.Error(errors.ErrTaskQueueEmpty))
			if w.sleep(ctx, emptyQueuePoll) {
				return nil
			}
			continue
		}

		raw, ok, err := w.coord.PopTask(ctx)
		if err != nil {
			w.Logger().Error("pop task failed", zap.Error(err))
			continue
		}
		if !ok {
			continue
		}

		task, err := domain.ParseTask(raw)
		if err != nil {
			w.Logger().Warn("malformed task, dropping", zap.String("raw", raw), zap.Error(err))
			continue
		}

		w.crawlRegion(ctx, crawlFrame{region: task.Region, keyword: task.Keyword, pageNum: 0, pageNums: nil})
	}
}

// sleep blocks for d or until the worker is asked to stop, reporting
// whether it returned early because of a stop signal.
func (w *CrawlerWorker) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return true
	case <-w.StopChan():
		return true
	case <-time.After(d):
		return false
	}
}

// crawlRegion runs the region/keyword state machine to completion using an
// explicit LIFO frame stack instead of recursion (§9): page advance and
// quadrant subdivision both push new frames rather than calling back in.
func (w *CrawlerWorker) crawlRegion(ctx context.Context, initial crawlFrame) {
	stack := []crawlFrame{initial}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.pageNums != nil && f.pageNum >= *f.pageNums {
			continue
		}

		ak, ok, err := w.coord.SampleCredential(ctx)
		if err != nil {
			w.Logger().Error("sample credential failed", zap.Error(err))
			continue
		}
		if !ok {
			w.sleep(ctx, transientSleep)
			w.requeueHead(ctx, f)
			continue
		}

		isBBox := strings.Contains(f.region, ",")
		resp, err := w.upstream.Search(ctx, ak, f.region, f.keyword, f.pageNum, isBBox)
		if err != nil {
			w.Logger().Warn("upstream transport failure, requeuing tail",
				zap.String("region", f.region), zap.Error(errors.ErrUpstreamTransport.WithDetails(map[string]interface{}{"error": err.Error()})))
			w.requeueTail(ctx, f)
			continue
		}

		switch resp.Status {
		case domain.StatusQuotaExhausted:
			metrics.UpstreamErrors.WithLabelValues(resp.Status.String()).Inc()
			w.Logger().Info("credential quota exhausted, removing and requeuing head", zap.Error(errors.ErrUpstreamQuotaExhausted))
			if err := w.coord.RemoveCredential(ctx, ak); err != nil {
				w.Logger().Error("remove credential failed", zap.Error(err))
			}
			w.requeueHead(ctx, f)
			w.sleep(ctx, transientSleep)
			continue
		case domain.StatusIPRejected:
			metrics.UpstreamErrors.WithLabelValues(resp.Status.String()).Inc()
			w.Logger().Warn("credential rejected for IP, removing and requeuing head", zap.Error(errors.ErrUpstreamIPRejected))
			if err := w.coord.RemoveCredential(ctx, ak); err != nil {
				w.Logger().Error("remove credential failed", zap.Error(err))
			}
			w.requeueHead(ctx, f)
			w.sleep(ctx, transientSleep)
			continue
		case domain.StatusRateLimited:
			metrics.UpstreamErrors.WithLabelValues(resp.Status.String()).Inc()
			w.Logger().Info("concurrency cap hit, requeuing head", zap.Error(errors.ErrUpstreamRateLimited))
			w.requeueHead(ctx, f)
			w.sleep(ctx, transientSleep)
			continue
		case domain.StatusBadRequest:
			metrics.UpstreamErrors.WithLabelValues(resp.Status.String()).Inc()
			w.Logger().Warn("bad request, dropping task",
				zap.String("region", f.region), zap.String("keyword", f.keyword), zap.Error(errors.ErrUpstreamBadRequest))
			continue
		case domain.StatusOther:
			metrics.UpstreamErrors.WithLabelValues(resp.Status.String()).Inc()
			w.Logger().Warn("unrecognized upstream status, dropping", zap.String("region", f.region), zap.Error(errors.ErrUpstreamOther))
			w.sleep(ctx, transientSleep)
			continue
		}

		if resp.Total == 0 {
			continue
		}

		cap := w.upstream.Cap()
		if resp.Total >= cap {
			if !isBBox {
				w.Logger().Warn("cap hit on named region, cannot subdivide",
					zap.String("region", f.region), zap.Int("total", resp.Total), zap.Error(errors.ErrSubdivisionOnNamedRegion))
				continue
			}
			bbox, err := domain.ParseBBox(f.region)
			if err != nil {
				w.Logger().Warn("malformed bounding box, dropping", zap.String("region", f.region))
				continue
			}
			sw, nw, ne, se := bbox.Quadrants()
			for _, q := range []domain.BBox{sw, nw, ne, se} {
				stack = append(stack, crawlFrame{region: q.String(), keyword: f.keyword, pageNum: 0, pageNums: nil})
			}
			continue
		}

		pageNums := f.pageNums
		if pageNums == nil {
			n := int(math.Ceil(float64(resp.Total) / float64(w.upstream.PageSize())))
			pageNums = &n
		}

		for _, raw := range resp.Results {
			w.handleResult(ctx, ak, raw)
		}

		stack = append(stack, crawlFrame{region: f.region, keyword: f.keyword, pageNum: f.pageNum + 1, pageNums: pageNums})
	}
}

func (w *CrawlerWorker) requeueHead(ctx context.Context, f crawlFrame) {
	task := domain.Task{Region: f.region, Keyword: f.keyword}
	if err := w.coord.RequeueHead(ctx, task.String()); err != nil {
		w.Logger().Error("requeue head failed", zap.Error(err))
	}
}

func (w *CrawlerWorker) requeueTail(ctx context.Context, f crawlFrame) {
	task := domain.Task{Region: f.region, Keyword: f.keyword}
	if err := w.coord.RequeueTail(ctx, task.String()); err != nil {
		w.Logger().Error("requeue tail failed", zap.Error(err))
	}
}

// handleResult implements the dedup-and-emit sequence of §4.6/§5: skip
// already-visited uids unless update mode is on, otherwise build the
// PoiRecord and only push it to the result-queue if this call won the
// markVisited race (the atomicity invariant I4 depends on this ordering).
func (w *CrawlerWorker) handleResult(ctx context.Context, ak string, raw domain.RawResult) {
	if raw.UID == "" {
		return
	}
	if !w.updateMode {
		visited, err := w.coord.IsVisited(ctx, raw.UID)
		if err != nil {
			w.Logger().Error("is visited check failed", zap.Error(err))
			return
		}
		if visited {
			return
		}
	}

	record, err := w.parsePoi(ctx, ak, raw)
	if err != nil {
		w.Logger().Info("result parse failed, skipping",
			zap.String("uid", raw.UID), zap.Error(errors.ErrRecordParseFailed.WithDetails(map[string]interface{}{"error": err.Error()})))
		return
	}

	newlyVisited, err := w.coord.MarkVisited(ctx, raw.UID)
	if err != nil {
		w.Logger().Error("mark visited failed", zap.Error(err))
		return
	}
	if !newlyVisited {
		return
	}

	if err := w.coord.PushResult(ctx, SerializeRecord(record)); err != nil {
		w.Logger().Error("push result failed", zap.Error(err))
		return
	}
	metrics.ResultsEmitted.Inc()
}

// parsePoi composes the PoiRecord (§4.6): project the native projection to
// WGS-84, encode the precision-8 geohash, normalize the tag, and enrich
// with the detail/AOI endpoints when warranted.
func (w *CrawlerWorker) parsePoi(ctx context.Context, ak string, raw domain.RawResult) (domain.PoiRecord, error) {
	var lon, lat float64
	switch w.source {
	case SourceBaidu:
		lon, lat = geo.BD09ToWGS84(raw.Lng, raw.Lat)
	case SourceGaode:
		lon, lat = geo.GCJ02ToWGS84(raw.Lng, raw.Lat)
	default:
		return domain.PoiRecord{}, fmt.Errorf("unknown source %q", w.source)
	}
	lon, lat = geo.Round6(lon), geo.Round6(lat)

	record := domain.PoiRecord{
		UID:       raw.UID,
		Poi:       domain.Point(lon, lat),
		Name:      raw.Name,
		Geohash:   geohash.EncodeWithPrecision(lat, lon, 8),
		Province:  raw.Province,
		Area:      raw.Area,
		District:  raw.District,
		Tag:       normalizeTag(raw.Tag, w.categories),
		Telephone: raw.Telephone,
	}

	if isSensitive(record.Tag) {
		attr, err := w.upstream.Detail(ctx, ak, raw.UID)
		if err != nil {
			w.Logger().Info("detail lookup failed", zap.String("uid", raw.UID), zap.Error(err))
		} else {
			record.Attribute = attr
		}
	}

	aoiRaw, err := w.upstream.AOI(ctx, ak, raw.UID)
	if err != nil {
		w.Logger().Info("aoi lookup failed", zap.String("uid", raw.UID), zap.Error(err))
	} else if aoiRaw != "" {
		wkt, err := geo.DecodeAOIWKT(aoiRaw)
		if err != nil {
			w.Logger().Info("aoi decode failed", zap.String("uid", raw.UID), zap.Error(err))
		} else {
			record.AOI = wkt
		}
	}

	return record, nil
}

// normalizeTag applies the static category map (§4.6, P7): a tag without a
// ';' is prefixed with its resolved category, if any; a tag already
// carrying ';' passes through unchanged.
func normalizeTag(tag string, categories config.CategoryConfig) string {
	if tag == "" || strings.Contains(tag, ";") {
		return tag
	}
	if category, ok := categories[tag]; ok {
		return strings.Trim(category+";"+tag, ";")
	}
	return tag
}

func isSensitive(tag string) bool {
	category := tag
	if idx := strings.Index(tag, ";"); idx >= 0 {
		category = tag[:idx]
	}
	return sensitiveCategories[category]
}
