package ports

import (
	"context"

	"github.com/aretw0/graft/pkg/domain"
)

// SnapshotStore defines the interface for persisting committed container snapshots.
// This allows tooling (HTTP inspector, MCP tools) to observe containers without touching the live tree.
type SnapshotStore interface {
	// Save persists the snapshot for a given container ID, replacing any previous one.
	Save(ctx context.Context, containerID string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given container ID.
	// Returns domain.ErrSessionNotFound if the container has no snapshot.
	Load(ctx context.Context, containerID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given container ID.
	Delete(ctx context.Context, containerID string) error

	// List returns the IDs of all containers with a snapshot.
	List(ctx context.Context) ([]string, error)
}
