package reconciler

import "github.com/aretw0/graft/pkg/host"

// target routes child-list edits to the element or container variant of an operation.
type target interface {
	append(child *host.Instance) error
	insertBefore(child, reference *host.Instance) error
	remove(child *host.Instance) error
}

type elementTarget struct {
	cfg    host.HostConfig
	parent *host.Instance
}

func (t elementTarget) append(child *host.Instance) error {
	return t.cfg.AppendChild(t.parent, child)
}

func (t elementTarget) insertBefore(child, reference *host.Instance) error {
	return t.cfg.InsertBefore(t.parent, child, reference)
}

func (t elementTarget) remove(child *host.Instance) error {
	return t.cfg.RemoveChild(t.parent, child)
}

type containerTarget struct {
	cfg       host.HostConfig
	container *host.Instance
}

func (t containerTarget) append(child *host.Instance) error {
	return t.cfg.AppendChildToContainer(t.container, child)
}

func (t containerTarget) insertBefore(child, reference *host.Instance) error {
	return t.cfg.InsertInContainerBefore(t.container, child, reference)
}

func (t containerTarget) remove(child *host.Instance) error {
	return t.cfg.RemoveChildFromContainer(t.container, child)
}
