/*
Package session implements container sessions: the long-lived handle created the first
time a tree is rendered into a root host object.

A Manager serializes updates per container with reference-counted local locks (and an
optional ports.DistributedLocker), runs the reconciler, saves a snapshot of every commit
to a ports.SnapshotStore and hands the completion callback to a scheduler.
*/
package session
