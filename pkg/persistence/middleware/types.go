// Package middleware wraps a ports.SnapshotStore to transform snapshots on their
// way to and from the backing store.
package middleware

import "github.com/aretw0/graft/pkg/ports"

// Middleware allows wrapping a SnapshotStore to add behavior.
type Middleware func(ports.SnapshotStore) ports.SnapshotStore

// Chain applies mws to store. The first middleware is the outermost one, so it sees the snapshot first on Save.
func Chain(store ports.SnapshotStore, mws ...Middleware) ports.SnapshotStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
