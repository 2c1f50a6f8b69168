package usecase_test

import (
	"context"

	"github.com/location-microservice/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockCoordinationStore mocks domainrepo.CoordinationStore.
type MockCoordinationStore struct {
	mock.Mock
}

func (m *MockCoordinationStore) SampleCredential(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCoordinationStore) RemoveCredential(ctx context.Context, ak string) error {
	return m.Called(ctx, ak).Error(0)
}

func (m *MockCoordinationStore) CredentialCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCoordinationStore) ResetCredentials(ctx context.Context, aks []string) error {
	return m.Called(ctx, aks).Error(0)
}

func (m *MockCoordinationStore) ListCredentials(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCoordinationStore) PopTask(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCoordinationStore) RequeueHead(ctx context.Context, item string) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCoordinationStore) RequeueTail(ctx context.Context, item string) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCoordinationStore) TaskQueueLen(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCoordinationStore) IsVisited(ctx context.Context, uid string) (bool, error) {
	args := m.Called(ctx, uid)
	return args.Bool(0), args.Error(1)
}

func (m *MockCoordinationStore) MarkVisited(ctx context.Context, uid string) (bool, error) {
	args := m.Called(ctx, uid)
	return args.Bool(0), args.Error(1)
}

func (m *MockCoordinationStore) VisitedCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCoordinationStore) ResetVisited(ctx context.Context, uids []string) error {
	return m.Called(ctx, uids).Error(0)
}

func (m *MockCoordinationStore) PushResult(ctx context.Context, serialized string) error {
	return m.Called(ctx, serialized).Error(0)
}

func (m *MockCoordinationStore) PopResult(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCoordinationStore) ResultQueueLen(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockUpstreamClient mocks domainrepo.UpstreamClient.
type MockUpstreamClient struct {
	mock.Mock
	pageSize int
	cap      int
}

func (m *MockUpstreamClient) PageSize() int { return m.pageSize }
func (m *MockUpstreamClient) Cap() int      { return m.cap }

func (m *MockUpstreamClient) Search(ctx context.Context, ak, region, keyword string, pageNum int, isBoundingBox bool) (domain.SearchResponse, error) {
	args := m.Called(ctx, ak, region, keyword, pageNum, isBoundingBox)
	return args.Get(0).(domain.SearchResponse), args.Error(1)
}

func (m *MockUpstreamClient) Detail(ctx context.Context, ak, uid string) (string, error) {
	args := m.Called(ctx, ak, uid)
	return args.String(0), args.Error(1)
}

func (m *MockUpstreamClient) AOI(ctx context.Context, ak, uid string) (string, error) {
	args := m.Called(ctx, ak, uid)
	return args.String(0), args.Error(1)
}

// MockPoiStore mocks domainrepo.PoiStore.
type MockPoiStore struct {
	mock.Mock
}

func (m *MockPoiStore) DeleteAndInsert(ctx context.Context, record domain.PoiRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockPoiStore) AllUIDs(ctx context.Context, pageSize int, fn func([]string) error) error {
	args := m.Called(ctx, pageSize)
	if pages, ok := args.Get(0).([][]string); ok {
		for _, page := range pages {
			if err := fn(page); err != nil {
				return err
			}
		}
	}
	return args.Error(1)
}

func (m *MockPoiStore) Close() error {
	return m.Called().Error(0)
}
