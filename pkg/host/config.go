package host

// HostConfig is the fixed operation set a reconciliation engine drives.
// Instances, contexts and payloads are opaque to the engine: it only passes back
// what earlier calls returned.
type HostConfig interface {
	// Context Propagator
	RootHostContext(root *Instance) *Context
	ChildHostContext(parent *Context, childType string, root *Instance) *Context
	ShouldSetTextContent(typ string, props map[string]any) bool
	ShouldDeprioritizeSubtree(typ string, props map[string]any) bool

	// Instance Factory
	CreateInstance(typ string, props map[string]any, root *Instance, ctx *Context, handle any) (*Instance, error)
	CreateTextInstance(text string, root *Instance, ctx *Context, handle any) (*Instance, error)
	FinalizeInitialChildren(inst *Instance, typ string, props map[string]any, root *Instance, ctx *Context) bool

	// Mutation Executor
	AppendInitialChild(parent, child *Instance) error
	AppendChild(parent, child *Instance) error
	AppendChildToContainer(container, child *Instance) error
	InsertBefore(parent, child, reference *Instance) error
	InsertInContainerBefore(container, child, reference *Instance) error
	RemoveChild(parent, child *Instance) error
	RemoveChildFromContainer(container, child *Instance) error
	ClearContainer(container *Instance) error
	CommitTextUpdate(text *Instance, oldText, newText string) error
	PrepareUpdate(inst *Instance, typ string, oldProps, newProps map[string]any) (*UpdatePayload, error)
	CommitUpdate(inst *Instance, payload *UpdatePayload, typ string, oldProps, newProps map[string]any, handle any) error
	ResetTextContent(inst *Instance) error

	// Commit Coordinator
	PrepareForCommit(container *Instance) (any, error)
	ResetAfterCommit(container *Instance) error
	CommitMount(inst *Instance, typ string, props map[string]any, handle any) error
}
