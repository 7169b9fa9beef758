package host

import (
	"fmt"

	"github.com/aretw0/graft/pkg/domain"
)

// CreateInstance allocates an unattached structural instance and applies its
// creation-time props and event bindings.
func (a *Adapter) CreateInstance(typ string, props map[string]any, root *Instance, ctx *Context, handle any) (*Instance, error) {
	k, ok := a.registry.Lookup(typ)
	if !ok {
		return nil, &domain.InvalidTypeError{Type: typ}
	}
	p, err := a.decode(typ, props)
	if err != nil {
		return nil, err
	}

	ns := k.Namespace
	if ns == "" && ctx != nil {
		ns = ctx.Namespace
	}
	node, err := a.backend.CreateElement(k.ElementTag(), ns)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", typ, err)
	}

	inst := &Instance{
		id:        a.label(typ),
		typ:       typ,
		kind:      k,
		node:      node,
		props:     p,
		listeners: make(map[string]domain.EventHandler),
		handle:    handle,
		ctx:       ctx,
		root:      root,
	}

	for name, v := range p.Attributes() {
		node.SetAttribute(name, v)
	}
	for prop, v := range p.Style {
		node.SetStyle(prop, v)
	}
	for event, h := range p.Bindings() {
		node.AddListener(event, h)
		inst.listeners[event] = h
	}
	if p.Text != "" {
		node.SetText(p.Text)
	}
	if k.Init != nil {
		if err := k.Init(node, p); err != nil {
			return nil, fmt.Errorf("init %s: %w", typ, err)
		}
	}

	a.logger.Debug("host instance created", "type", typ, "instance", inst.id)
	return inst, nil
}

// CreateTextInstance allocates an unattached TextInstance.
func (a *Adapter) CreateTextInstance(text string, root *Instance, ctx *Context, handle any) (*Instance, error) {
	node, err := a.backend.CreateText(text)
	if err != nil {
		return nil, fmt.Errorf("create text: %w", err)
	}
	return &Instance{
		id:     a.label("text"),
		typ:    domain.TextType,
		node:   node,
		isText: true,
		text:   text,
		handle: handle,
		ctx:    ctx,
		root:   root,
	}, nil
}

// FinalizeInitialChildren runs once the initial children are appended and reports
// whether inst needs a CommitMount after it is attached.
func (a *Adapter) FinalizeInitialChildren(inst *Instance, typ string, props map[string]any, root *Instance, ctx *Context) bool {
	if inst.isText {
		return false
	}
	inst.needsMount = inst.props.AutoFocus || inst.kind.Mount != nil
	return inst.needsMount
}
