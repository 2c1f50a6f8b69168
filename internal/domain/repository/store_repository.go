package repository

import (
	"context"

	"github.com/location-microservice/internal/domain"
)

// PoiStore is the downstream Poi-table client (§4.7/§6.2). DeleteAndInsert
// issues the DELETE-then-INSERT upsert the reference design uses; it is
// intentionally not transactional (§9).
type PoiStore interface {
	DeleteAndInsert(ctx context.Context, record domain.PoiRecord) error
	// AllUIDs streams every uid in the table, paged, for the rehydrator (C10).
	AllUIDs(ctx context.Context, pageSize int, fn func(uids []string) error) error
	Close() error
}
