package host

import "github.com/aretw0/graft/pkg/domain"

// UpdatePayload is the incremental change set applied by CommitUpdate.
type UpdatePayload = domain.PropsDiff

// PrepareUpdate computes the payload for an update of inst from oldProps to newProps.
// A nil payload means nothing changed.
func (a *Adapter) PrepareUpdate(inst *Instance, typ string, oldProps, newProps map[string]any) (*UpdatePayload, error) {
	if err := live("prepareUpdate", inst); err != nil {
		return nil, err
	}
	oldP, err := a.decode(typ, oldProps)
	if err != nil {
		return nil, err
	}
	newP, err := a.decode(typ, newProps)
	if err != nil {
		return nil, err
	}
	return domain.DiffProps(oldP, newP), nil
}

// CommitUpdate applies payload to inst. A nil payload is computed from oldProps and newProps.
// Binding changes always unregister the handler currently bound before adding the new one.
func (a *Adapter) CommitUpdate(inst *Instance, payload *UpdatePayload, typ string, oldProps, newProps map[string]any, handle any) error {
	if err := live("commitUpdate", inst); err != nil {
		return err
	}
	if inst.isText || inst.container != nil {
		return &domain.InvalidTypeError{Type: inst.typ, Reason: "commitUpdate needs a structural instance"}
	}
	newP, err := a.decode(typ, newProps)
	if err != nil {
		return err
	}
	if payload == nil {
		oldP, err := a.decode(typ, oldProps)
		if err != nil {
			return err
		}
		payload = domain.DiffProps(oldP, newP)
	}
	if payload != nil {
		a.apply(inst, payload)
	}
	inst.props = newP
	inst.handle = handle
	a.trace("commitUpdate", inst)
	return nil
}

func (a *Adapter) apply(inst *Instance, d *UpdatePayload) {
	node := inst.node
	for _, name := range d.RemoveAttrs {
		node.RemoveAttribute(name)
	}
	for name, v := range d.SetAttrs {
		node.SetAttribute(name, v)
	}
	for _, prop := range d.RemoveStyles {
		node.RemoveStyle(prop)
	}
	for prop, v := range d.SetStyles {
		node.SetStyle(prop, v)
	}
	for _, b := range d.Bindings {
		if cur, ok := inst.listeners[b.Event]; ok {
			node.RemoveListener(b.Event, cur)
			delete(inst.listeners, b.Event)
		}
		if b.New != nil {
			node.AddListener(b.Event, b.New)
			inst.listeners[b.Event] = b.New
		}
	}
	if d.Text != nil {
		node.SetText(*d.Text)
	}
}
