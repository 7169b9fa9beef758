package host

import (
	"fmt"

	"github.com/aretw0/graft/pkg/domain"
)

// AppendInitialChild appends child to a parent that is still under construction.
func (a *Adapter) AppendInitialChild(parent, child *Instance) error {
	if err := requireElement("appendInitialChild", parent); err != nil {
		return err
	}
	return a.link("appendInitialChild", parent, child, nil)
}

// AppendChild appends child as the last child of a live parent.
func (a *Adapter) AppendChild(parent, child *Instance) error {
	if err := requireElement("appendChild", parent); err != nil {
		return err
	}
	return a.link("appendChild", parent, child, nil)
}

// AppendChildToContainer appends child as the last top-level child of container.
func (a *Adapter) AppendChildToContainer(container, child *Instance) error {
	if err := requireContainer("appendChildToContainer", container); err != nil {
		return err
	}
	return a.link("appendChildToContainer", container, child, nil)
}

// InsertBefore splices child immediately before reference.
func (a *Adapter) InsertBefore(parent, child, reference *Instance) error {
	if err := requireElement("insertBefore", parent); err != nil {
		return err
	}
	return a.link("insertBefore", parent, child, reference)
}

// InsertInContainerBefore splices child immediately before a top-level reference.
func (a *Adapter) InsertInContainerBefore(container, child, reference *Instance) error {
	if err := requireContainer("insertInContainerBefore", container); err != nil {
		return err
	}
	return a.link("insertInContainerBefore", container, child, reference)
}

// RemoveChild detaches child and releases its whole subtree.
func (a *Adapter) RemoveChild(parent, child *Instance) error {
	if err := requireElement("removeChild", parent); err != nil {
		return err
	}
	return a.unlink("removeChild", parent, child)
}

// RemoveChildFromContainer detaches a top-level child and releases its whole subtree.
func (a *Adapter) RemoveChildFromContainer(container, child *Instance) error {
	if err := requireContainer("removeChildFromContainer", container); err != nil {
		return err
	}
	return a.unlink("removeChildFromContainer", container, child)
}

// ClearContainer detaches every top-level child of container in one step.
func (a *Adapter) ClearContainer(container *Instance) error {
	if err := requireContainer("clearContainer", container); err != nil {
		return err
	}
	for _, child := range container.children {
		container.node.RemoveChild(child.node)
		child.parent = nil
		a.release(child)
	}
	container.children = nil
	a.trace("clearContainer", container)
	return nil
}

// CommitTextUpdate sets the payload of a TextInstance to exactly newText.
// oldText is advisory and never compared.
func (a *Adapter) CommitTextUpdate(text *Instance, oldText, newText string) error {
	if err := live("commitTextUpdate", text); err != nil {
		return err
	}
	if !text.isText {
		return &domain.InvalidTypeError{Type: text.typ, Reason: "commitTextUpdate needs a text instance"}
	}
	text.text = newText
	text.node.SetText(newText)
	a.trace("commitTextUpdate", text)
	return nil
}

// ResetTextContent clears the text held directly by a structural instance.
func (a *Adapter) ResetTextContent(inst *Instance) error {
	if err := live("resetTextContent", inst); err != nil {
		return err
	}
	if inst.isText || inst.container != nil {
		return &domain.InvalidTypeError{Type: inst.typ, Reason: "resetTextContent needs a structural instance"}
	}
	inst.props.Text = ""
	inst.node.SetText("")
	a.trace("resetTextContent", inst)
	return nil
}

func requireElement(op string, parent *Instance) error {
	if parent.isText {
		return &domain.InvalidTypeError{Type: parent.typ, Reason: op + ": text instances have no children"}
	}
	if parent.container != nil {
		return &domain.InvalidTypeError{Type: parent.typ, Reason: op + ": target is a container"}
	}
	return nil
}

func requireContainer(op string, container *Instance) error {
	if container.container == nil {
		return &domain.InvalidTypeError{Type: container.typ, Reason: op + ": target is not a container"}
	}
	return nil
}

// link attaches child to parent, before reference when it is not nil.
// An attached child is moved: it leaves its previous parent first.
func (a *Adapter) link(op string, parent, child, reference *Instance) error {
	if err := live(op, parent, child); err != nil {
		return err
	}
	if child.container != nil {
		return &domain.InvalidTypeError{Type: child.typ, Reason: op + ": a container cannot be a child"}
	}
	if reference != nil {
		if err := live(op, reference); err != nil {
			return err
		}
		if reference.parent != parent {
			return &domain.ReferenceNotFoundError{Op: op, Parent: parent.id, Reference: reference.id}
		}
		if reference == child {
			return nil
		}
	}
	if child.ancestorOf(parent) {
		return fmt.Errorf("%s: %s cannot become a descendant of itself", op, child.id)
	}

	if old := child.parent; old != nil {
		old.unlink(child)
		old.node.RemoveChild(child.node)
	}

	if reference == nil {
		parent.children = append(parent.children, child)
		parent.node.AppendChild(child.node)
	} else {
		idx := parent.indexOf(reference)
		parent.children = append(parent.children, nil)
		copy(parent.children[idx+1:], parent.children[idx:])
		parent.children[idx] = child
		parent.node.InsertBefore(child.node, reference.node)
	}
	child.parent = parent
	if child.root == nil {
		child.root = parent.root
	}

	a.trace(op, child)
	return nil
}

func (a *Adapter) unlink(op string, parent, child *Instance) error {
	if err := live(op, parent, child); err != nil {
		return err
	}
	if child.parent != parent {
		return &domain.ReferenceNotFoundError{Op: op, Parent: parent.id, Reference: child.id}
	}
	parent.unlink(child)
	parent.node.RemoveChild(child.node)
	a.trace(op, child)
	a.release(child)
	return nil
}

// release tears down a removed subtree: bindings are unregistered and every
// instance is marked detached with its links severed.
func (a *Adapter) release(inst *Instance) {
	for _, child := range inst.children {
		a.release(child)
	}
	for event, h := range inst.listeners {
		inst.node.RemoveListener(event, h)
	}
	inst.listeners = nil
	inst.children = nil
	inst.parent = nil
	inst.detached = true
}
