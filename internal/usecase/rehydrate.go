package usecase

import (
	"context"

	domainrepo "github.com/location-microservice/internal/domain/repository"
)

// Rehydrator is C10: populates the visited-set from the downstream store's
// uid column at startup, replacing its contents wholesale (§4.8).
type Rehydrator struct {
	coord domainrepo.CoordinationStore
	store domainrepo.PoiStore
}

func NewRehydrator(coord domainrepo.CoordinationStore, store domainrepo.PoiStore) *Rehydrator {
	return &Rehydrator{coord: coord, store: store}
}

const rehydratePageSize = 1000

// Run streams every uid out of the Poi-table and resets the visited-set to
// exactly that population.
func (r *Rehydrator) Run(ctx context.Context) (int64, error) {
	if err := r.coord.ResetVisited(ctx, nil); err != nil {
		return 0, err
	}

	var total int64
	err := r.store.AllUIDs(ctx, rehydratePageSize, func(uids []string) error {
		for _, uid := range uids {
			if _, err := r.coord.MarkVisited(ctx, uid); err != nil {
				return err
			}
		}
		total += int64(len(uids))
		return nil
	})
	return total, err
}
