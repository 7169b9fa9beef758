package host

import "github.com/aretw0/graft/pkg/domain"

// Context is the host context threaded down the tree.
// A child shares its parent's Context unless its kind specializes it.
type Context struct {
	// Namespace is the element namespace descendants are created in.
	Namespace string

	// Inline is set below phrasing content kinds.
	Inline bool

	// Depth counts the specializations between the root context and this one.
	Depth int

	// Parent is the context this one specializes. Nil for a root context.
	Parent *Context
}

type contextKey struct {
	parent *Context
	typ    string
}

// RootHostContext returns the ancestor context of a container's top-level children.
func (a *Adapter) RootHostContext(root *Instance) *Context {
	return &Context{}
}

// ChildHostContext derives the context for the descendants of a childType node.
// Results are memoized per container, so repeated calls return the same pointer.
func (a *Adapter) ChildHostContext(parent *Context, childType string, root *Instance) *Context {
	if parent == nil {
		parent = a.RootHostContext(root)
	}
	if root == nil || root.container == nil {
		return a.specialize(parent, childType)
	}

	cs := root.container
	key := contextKey{parent: parent, typ: childType}
	cs.ctxMu.Lock()
	defer cs.ctxMu.Unlock()
	if ctx, ok := cs.contexts[key]; ok {
		return ctx
	}
	ctx := a.specialize(parent, childType)
	cs.contexts[key] = ctx
	return ctx
}

func (a *Adapter) specialize(parent *Context, childType string) *Context {
	k, ok := a.registry.Lookup(childType)
	if !ok {
		return parent
	}
	ns := parent.Namespace
	if k.Namespace != "" {
		ns = k.Namespace
	}
	inline := parent.Inline || k.Inline
	if ns == parent.Namespace && inline == parent.Inline {
		return parent
	}
	return &Context{
		Namespace: ns,
		Inline:    inline,
		Depth:     parent.Depth + 1,
		Parent:    parent,
	}
}

// ShouldSetTextContent reports whether the text of a typ node is set on the node itself
// instead of being materialized as child TextInstances.
func (a *Adapter) ShouldSetTextContent(typ string, props map[string]any) bool {
	if k, ok := a.registry.Lookup(typ); ok && k.OpaqueText {
		return true
	}
	return domain.HasText(props)
}

// ShouldDeprioritizeSubtree reports whether the subtree of a typ node is hidden.
func (a *Adapter) ShouldDeprioritizeSubtree(typ string, props map[string]any) bool {
	p, err := domain.DecodeProps(props)
	if err != nil {
		return false
	}
	return p.Hidden
}
