package ports

import (
	"context"

	"github.com/aretw0/graft/pkg/domain"
)

// Workspace is the container-level surface exposed to remote adapters (HTTP, MCP).
type Workspace interface {
	// Open attaches a fresh root host object and returns the new container ID.
	Open(ctx context.Context) (string, error)

	// Render submits a tree to the container and returns the snapshot of the resulting commit.
	Render(ctx context.Context, containerID string, tree domain.AbstractNode) (*domain.Snapshot, error)

	// Snapshot returns the last committed snapshot of the container.
	Snapshot(ctx context.Context, containerID string) (*domain.Snapshot, error)

	// Close unmounts the container and forgets it.
	Close(ctx context.Context, containerID string) error

	// List returns the IDs of the open containers.
	List(ctx context.Context) ([]string, error)
}
