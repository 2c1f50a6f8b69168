package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// TestCrawlerWorker_OneRegionOnePageDedupAndPersist drives Start through
// exactly one task: pop a task, fetch one page of one result, dedup it as
// new, and push it to the result queue. The second outer-loop iteration is
// stopped via Stop() once the push has been observed.
func TestCrawlerWorker_OneRegionOnePageDedupAndPersist(t *testing.T) {
	coord := &MockCoordinationStore{}
	upstream := &MockUpstreamClient{pageSize: 20, cap: 400}
	logger := zap.NewNop()

	task := domain.Task{Region: "beijing", Keyword: "cafe"}

	result := domain.RawResult{UID: "uid-1", Name: "Cafe One", Lng: 116.404, Lat: 39.915, Tag: "cinema"}
	resp := domain.SearchResponse{Status: domain.StatusSuccess, Total: 1, Results: []domain.RawResult{result}}

	pushed := make(chan string, 1)

	coord.On("CredentialCount", mock.Anything).Return(int64(1), nil).Once()
	coord.On("TaskQueueLen", mock.Anything).Return(int64(1), nil).Once()
	coord.On("PopTask", mock.Anything).Return(task.String(), true, nil).Once()

	coord.On("SampleCredential", mock.Anything).Return("ak-1", true, nil).Once()
	upstream.On("Search", mock.Anything, "ak-1", "beijing", "cafe", 0, false).Return(resp, nil).Once()

	coord.On("IsVisited", mock.Anything, "uid-1").Return(false, nil).Once()
	upstream.On("AOI", mock.Anything, "ak-1", "uid-1").Return("", nil).Once()
	coord.On("MarkVisited", mock.Anything, "uid-1").Return(true, nil).Once()
	coord.On("PushResult", mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { pushed <- args.String(1) }).
		Return(nil).Once()

	var worker *usecase.CrawlerWorker
	coord.On("CredentialCount", mock.Anything).Return(int64(0), nil).Maybe()
	coord.On("TaskQueueLen", mock.Anything).Return(int64(0), nil).Maybe()

	worker = usecase.NewCrawlerWorker("test", coord, upstream, usecase.SourceBaidu, config.CategoryConfig{}, false, logger)

	done := make(chan error, 1)
	go func() { done <- worker.Start(context.Background()) }()

	select {
	case serialized := <-pushed:
		var record domain.PoiRecord
		require := assert.New(t)
		err := json.Unmarshal([]byte(serialized), &record)
		require.NoError(err)
		require.Equal("uid-1", record.UID)
		require.Equal("cinema", record.Tag)
		require.Equal("POINT(116.391384 39.907253)", record.Poi)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for pushed result")
	}

	assert.NoError(t, worker.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after Stop()")
	}

	coord.AssertExpectations(t)
	upstream.AssertExpectations(t)
}

func TestCrawlerWorker_AlreadyVisitedSkipsPush(t *testing.T) {
	coord := &MockCoordinationStore{}
	upstream := &MockUpstreamClient{pageSize: 20, cap: 400}
	logger := zap.NewNop()

	task := domain.Task{Region: "beijing", Keyword: "cafe"}
	result := domain.RawResult{UID: "uid-2", Name: "Seen Already", Lng: 116.4, Lat: 39.9, Tag: "cinema"}
	resp := domain.SearchResponse{Status: domain.StatusSuccess, Total: 1, Results: []domain.RawResult{result}}

	coord.On("CredentialCount", mock.Anything).Return(int64(1), nil).Once()
	coord.On("TaskQueueLen", mock.Anything).Return(int64(1), nil).Once()
	coord.On("PopTask", mock.Anything).Return(task.String(), true, nil).Once()
	coord.On("SampleCredential", mock.Anything).Return("ak-1", true, nil).Once()
	upstream.On("Search", mock.Anything, "ak-1", "beijing", "cafe", 0, false).Return(resp, nil).Once()
	coord.On("IsVisited", mock.Anything, "uid-2").Return(true, nil).Once()
	coord.On("CredentialCount", mock.Anything).Return(int64(0), nil).Maybe()
	coord.On("TaskQueueLen", mock.Anything).Return(int64(0), nil).Maybe()

	worker := usecase.NewCrawlerWorker("test", coord, upstream, usecase.SourceBaidu, config.CategoryConfig{}, false, logger)

	done := make(chan error, 1)
	go func() { done <- worker.Start(context.Background()) }()

	time.Sleep(100 * time.Millisecond)
	assert.NoError(t, worker.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after Stop()")
	}

	coord.AssertNotCalled(t, "MarkVisited", mock.Anything, "uid-2")
	coord.AssertNotCalled(t, "PushResult", mock.Anything, mock.Anything)
}

func TestCrawlerWorker_CapHitSubdividesBoundingBox(t *testing.T) {
	coord := &MockCoordinationStore{}
	upstream := &MockUpstreamClient{pageSize: 20, cap: 2}
	logger := zap.NewNop()

	bbox := domain.BBox{MinLat: 0, MinLon: 0, MaxLat: 10, MaxLon: 10}
	task := domain.Task{Region: bbox.String(), Keyword: "cafe"}
	overflow := domain.SearchResponse{Status: domain.StatusSuccess, Total: 2, Results: nil}

	coord.On("CredentialCount", mock.Anything).Return(int64(1), nil).Once()
	coord.On("TaskQueueLen", mock.Anything).Return(int64(1), nil).Once()
	coord.On("PopTask", mock.Anything).Return(task.String(), true, nil).Once()

	coord.On("SampleCredential", mock.Anything).Return("ak-1", true, nil).Times(5)
	upstream.On("Search", mock.Anything, "ak-1", bbox.String(), "cafe", 0, true).Return(overflow, nil).Once()

	sw, nw, ne, se := bbox.Quadrants()
	empty := domain.SearchResponse{Status: domain.StatusSuccess, Total: 0}
	for _, q := range []domain.BBox{sw, nw, ne, se} {
		upstream.On("Search", mock.Anything, "ak-1", q.String(), "cafe", 0, true).Return(empty, nil).Once()
	}

	coord.On("CredentialCount", mock.Anything).Return(int64(0), nil).Maybe()
	coord.On("TaskQueueLen", mock.Anything).Return(int64(0), nil).Maybe()

	worker := usecase.NewCrawlerWorker("test", coord, upstream, usecase.SourceGaode, config.CategoryConfig{}, false, logger)

	done := make(chan error, 1)
	go func() { done <- worker.Start(context.Background()) }()

	assert.Eventually(t, func() bool {
		return upstream.AssertExpectations(&noopT{})
	}, 5*time.Second, 20*time.Millisecond)

	assert.NoError(t, worker.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after Stop()")
	}
}

// noopT satisfies mock.TestingT without failing the outer test while polling.
type noopT struct{}

func (noopT) Logf(string, ...interface{})   {}
func (noopT) Errorf(string, ...interface{}) {}
func (noopT) FailNow()                      {}
