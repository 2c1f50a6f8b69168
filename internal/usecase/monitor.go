package usecase

import (
	"context"

	domainrepo "github.com/location-microservice/internal/domain/repository"
)

// CollectionSizes is C9's one-shot report of the four shared collections'
// sizes (§4.8).
type CollectionSizes struct {
	Credentials int64
	TaskQueue   int64
	ResultQueue int64
	Visited     int64
}

type Monitor struct {
	coord domainrepo.CoordinationStore
}

func NewMonitor(coord domainrepo.CoordinationStore) *Monitor {
	return &Monitor{coord: coord}
}

func (m *Monitor) Report(ctx context.Context) (CollectionSizes, error) {
	var sizes CollectionSizes
	var err error

	if sizes.Credentials, err = m.coord.CredentialCount(ctx); err != nil {
		return sizes, err
	}
	if sizes.TaskQueue, err = m.coord.TaskQueueLen(ctx); err != nil {
		return sizes, err
	}
	if sizes.ResultQueue, err = m.coord.ResultQueueLen(ctx); err != nil {
		return sizes, err
	}
	if sizes.Visited, err = m.coord.VisitedCount(ctx); err != nil {
		return sizes, err
	}
	return sizes, nil
}
