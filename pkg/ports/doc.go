/*
Package ports defines the driven ports (interfaces) of the graft host adapter.

These interfaces decouple the adapter from concrete host-tree backends and from
the storage used to persist container snapshots.

# Key Interfaces

  - Backend and Node: the minimal capability set any host tree must provide
    (attribute and style assignment, child-list edits, text payloads, event bindings).
  - Suspender and Focuser: optional Node capabilities used by the commit coordinator.
  - SnapshotStore: persists the committed view of each container session.
  - DistributedLocker: serializes updates to one container across replicas.
  - Workspace: the container-level surface served by the HTTP and MCP adapters.
*/
package ports
