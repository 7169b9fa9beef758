package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	containerID := "contract-test-container-" + time.Now().Format("20060102150405")

	tree := domain.Element("div", map[string]any{"className": "app"},
		domain.Element("span", nil, domain.Text("hello")),
	)

	t.Run("Save and Load", func(t *testing.T) {
		snap := domain.NewSnapshot(containerID, 1, &tree, "div\n")

		err := store.Save(ctx, containerID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, containerID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, containerID, loaded.ContainerID)
		assert.Equal(t, uint64(1), loaded.Sequence)
		assert.Equal(t, "div\n", loaded.Outline)
		require.NotNil(t, loaded.Tree)
		assert.Equal(t, "div", loaded.Tree.Type)
		require.Len(t, loaded.Tree.Children, 1)
		assert.Equal(t, "hello", loaded.Tree.Children[0].Children[0].Text)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, containerID, domain.NewSnapshot(containerID, 2, nil, "")))

		loaded, err := store.Load(ctx, containerID)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), loaded.Sequence)
		assert.Nil(t, loaded.Tree)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+containerID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, containerID, domain.NewSnapshot(containerID, 3, nil, ""))
		require.NoError(t, err)

		err = store.Delete(ctx, containerID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, containerID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := containerID + "-1"
		id2 := containerID + "-2"
		_ = store.Save(ctx, id1, domain.NewSnapshot(id1, 1, nil, ""))
		_ = store.Save(ctx, id2, domain.NewSnapshot(id2, 1, nil, ""))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
