package graft

import (
	"context"
	"fmt"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// Workspace implements ports.Workspace over a Renderer, allocating a fresh mount
// point for every opened container.
type Workspace struct {
	renderer *Renderer
	newRoot  func() ports.Node
}

var _ ports.Workspace = (*Workspace)(nil)

// NewWorkspace creates a Workspace. newRoot must return a distinct node on every call.
func NewWorkspace(rd *Renderer, newRoot func() ports.Node) *Workspace {
	return &Workspace{renderer: rd, newRoot: newRoot}
}

// Open attaches a new mount point and returns the container ID.
func (w *Workspace) Open(ctx context.Context) (string, error) {
	s := w.renderer.sessions.Attach(w.newRoot())
	return s.ID, nil
}

// Render commits tree into the container and returns the resulting snapshot.
func (w *Workspace) Render(ctx context.Context, containerID string, tree domain.AbstractNode) (*domain.Snapshot, error) {
	s, err := w.renderer.sessions.Get(containerID)
	if err != nil {
		return nil, err
	}
	if err := w.renderer.sessions.Update(ctx, &tree, s, nil, nil); err != nil {
		return nil, err
	}
	return w.Snapshot(ctx, containerID)
}

// Snapshot returns the last committed snapshot of an open container.
func (w *Workspace) Snapshot(ctx context.Context, containerID string) (*domain.Snapshot, error) {
	s, err := w.renderer.sessions.Get(containerID)
	if err != nil {
		return nil, err
	}
	snap, err := w.renderer.store.Load(ctx, containerID)
	if err == nil {
		return snap, nil
	}
	if s.Sequence() == 0 {
		// Opened but never rendered.
		return domain.NewSnapshot(containerID, 0, nil, ""), nil
	}
	return nil, fmt.Errorf("load snapshot %s: %w", containerID, err)
}

// Close unmounts the container.
func (w *Workspace) Close(ctx context.Context, containerID string) error {
	s, err := w.renderer.sessions.Get(containerID)
	if err != nil {
		return err
	}
	return w.renderer.sessions.Detach(ctx, s)
}

// List returns the open container IDs.
func (w *Workspace) List(ctx context.Context) ([]string, error) {
	return w.renderer.sessions.List(), nil
}
