package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	tree := domain.Element("div", map[string]any{"className": "a"})
	require.NoError(t, store.Save(ctx, "c1", domain.NewSnapshot("c1", 1, &tree, "")))

	loaded, err := store.Load(ctx, "c1")
	require.NoError(t, err)
	loaded.Tree.Props["className"] = "mutated"

	again, err := store.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Tree.Props["className"])
}
