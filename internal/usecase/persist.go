package usecase

import (
	"context"
	"time"

	"github.com/location-microservice/internal/config"
	domainrepo "github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/pkg/metrics"
	"github.com/location-microservice/internal/worker"
	"go.uber.org/zap"
)

// StoreFactory opens a fresh downstream store connection. The persistence
// worker calls it once at startup and again every time it closes an idle
// connection (§4.7).
type StoreFactory func() (domainrepo.PoiStore, error)

// PersistWorker is C8: drains the result-queue single-flight, upserts each
// record via delete-then-insert, and requeues failures onto the result
// queue's own tail rather than the task queue (§9 open question (b)).
type PersistWorker struct {
	*worker.BaseWorker
	coord     domainrepo.CoordinationStore
	newStore  StoreFactory
	idleSleep time.Duration
}

var _ worker.Worker = (*PersistWorker)(nil)

func NewPersistWorker(coord domainrepo.CoordinationStore, newStore StoreFactory, logger *zap.Logger) *PersistWorker {
	return &PersistWorker{
		BaseWorker: worker.NewBaseWorker("persist", "", logger),
		coord:      coord,
		newStore:   newStore,
		idleSleep:  config.IdleReconnectInterval,
	}
}

func (w *PersistWorker) Start(ctx context.Context) error {
	store, err := w.newStore()
	if err != nil {
		return err
	}
	defer store.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.StopChan():
			return nil
		default:
		}

		serialized, ok, err := w.coord.PopResult(ctx)
		if err != nil {
			w.Logger().Error("pop result failed", zap.Error(err))
			continue
		}
		if !ok {
			if err := store.Close(); err != nil {
				w.Logger().Warn("idle store close failed", zap.Error(err))
			}
			if w.sleepIdle(ctx) {
				return nil
			}
			store, err = w.newStore()
			if err != nil {
				w.Logger().Error("idle store reopen failed", zap.Error(err))
				if w.sleepIdle(ctx) {
					return nil
				}
				continue
			}
			continue
		}

		record, err := DeserializeRecord(serialized)
		if err != nil {
			w.Logger().Error("result parse failed, requeuing", zap.Error(err))
			w.requeueResult(ctx, serialized)
			continue
		}

		if err := store.DeleteAndInsert(ctx, record); err != nil {
			w.Logger().Error("upsert failed, requeuing", zap.String("uid", record.UID), zap.Error(err))
			w.requeueResult(ctx, serialized)
			continue
		}
		metrics.RecordsPersisted.Inc()
	}
}

func (w *PersistWorker) requeueResult(ctx context.Context, serialized string) {
	metrics.PersistFailures.Inc()
	if err := w.coord.PushResult(ctx, serialized); err != nil {
		w.Logger().Error("requeue onto result queue failed", zap.Error(err))
	}
}

func (w *PersistWorker) sleepIdle(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-w.StopChan():
		return true
	case <-time.After(w.idleSleep):
		return false
	}
}
