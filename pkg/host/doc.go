/*
Package host implements the host adapter contract driven by a tree-reconciliation engine.

An Adapter translates abstract tree edits into operations on a concrete host tree
provided by a ports.Backend. It is split along the contract:

  - Context Propagator: RootHostContext, ChildHostContext, ShouldSetTextContent.
  - Instance Factory: CreateInstance, CreateTextInstance, FinalizeInitialChildren.
  - Mutation Executor: the append, insert, remove and update operations.
  - Commit Coordinator: PrepareForCommit, ResetAfterCommit, CommitMount.

The engine calls these in a documented order (render phase, then a bracketed commit
phase, then mounts). Operations are synchronous and must not be called concurrently
for the same container.

	a := host.New(memory.New())
	root := a.Container(mountPoint, "app")
	ctx := a.RootHostContext(root)
	span, _ := a.CreateInstance("span", nil, root, a.ChildHostContext(ctx, "span", root), nil)
	_, _ = a.PrepareForCommit(root)
	_ = a.AppendChildToContainer(root, span)
	_ = a.ResetAfterCommit(root)
*/
package host
