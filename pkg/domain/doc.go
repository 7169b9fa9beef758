/*
Package domain contains the core data model shared by the graft host adapter.

It defines the abstract tree handed over by a reconciliation engine, the typed
props union decoded at the instance factory boundary, the error kinds of the
adapter contract and the commit hooks used for observability. The package is
kept free of I/O and backend details so any package in the module can depend
on it.

# Key Entities

  - AbstractNode: the desired-state description of one host node.
  - Props: the closed set of recognized attribute and event keys plus an open
    passthrough bag for backend specific attributes.
  - PropsDiff: the incremental update computed between two Props values.
  - Snapshot: the persisted view of a container after a commit.
  - CommitHooks: callbacks fired around commits, mutations and mounts.
*/
package domain
