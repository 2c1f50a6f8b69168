package usecase

import (
	"context"
	"fmt"

	domainrepo "github.com/location-microservice/internal/domain/repository"
)

// seedCredentials is the embedded per-data-source credential list C5
// repopulates the AK-set from on reset (§4.8). Operators replace these
// placeholders with their own issued keys at deploy time.
var seedCredentials = map[string][]string{
	"baidu": {"baidu-ak-placeholder-1", "baidu-ak-placeholder-2"},
	"gaode": {"gaode-key-placeholder-1", "gaode-key-placeholder-2"},
}

// CredentialManager is C5: a CLI utility that (re)seeds the AK-set and
// reports its contents, intended to run daily from a scheduler.
type CredentialManager struct {
	coord      domainrepo.CoordinationStore
	dataSource string
}

func NewCredentialManager(coord domainrepo.CoordinationStore, dataSource string) *CredentialManager {
	return &CredentialManager{coord: coord, dataSource: dataSource}
}

// Reset clears the AK-set and repopulates it from the embedded list keyed
// by the configured data source.
func (m *CredentialManager) Reset(ctx context.Context) (int, error) {
	aks, ok := seedCredentials[m.dataSource]
	if !ok {
		return 0, fmt.Errorf("no embedded credential list for data source %q", m.dataSource)
	}
	if err := m.coord.ResetCredentials(ctx, aks); err != nil {
		return 0, err
	}
	return len(aks), nil
}

func (m *CredentialManager) Count(ctx context.Context) (int64, error) {
	return m.coord.CredentialCount(ctx)
}

func (m *CredentialManager) List(ctx context.Context) ([]string, error) {
	return m.coord.ListCredentials(ctx)
}
