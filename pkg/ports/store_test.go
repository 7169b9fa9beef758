package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// MockStore is an in-memory implementation of SnapshotStore for testing purposes.
type MockStore struct {
	data map[string]domain.Snapshot
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]domain.Snapshot),
	}
}

func (m *MockStore) Save(ctx context.Context, containerID string, snap *domain.Snapshot) error {
	m.data[containerID] = *snap
	return nil
}

func (m *MockStore) Load(ctx context.Context, containerID string) (*domain.Snapshot, error) {
	snap, ok := m.data[containerID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &snap, nil
}

func (m *MockStore) Delete(ctx context.Context, containerID string) error {
	delete(m.data, containerID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

var _ ports.SnapshotStore = (*MockStore)(nil)

func TestSnapshotStore_Contract(t *testing.T) {
	// The mock serves as the reference for the contract suite itself.
	ports.RunSnapshotStoreContract(t, NewMockStore())
}
