package ports

import "github.com/aretw0/graft/pkg/domain"

// Node is a concrete object of the host tree.
// The adapter owns topology bookkeeping; a Node only mirrors the edits it is told about.
type Node interface {
	SetAttribute(name string, value any)
	RemoveAttribute(name string)

	SetStyle(property, value string)
	RemoveStyle(property string)

	// AppendChild adds child as the last child. The adapter detaches child from any
	// previous parent before calling it.
	AppendChild(child Node)

	// InsertBefore adds child immediately before reference, which is always a current child.
	InsertBefore(child, reference Node)

	RemoveChild(child Node)

	// SetText assigns the text payload of a text node, or the direct text content of an element.
	SetText(text string)

	AddListener(event string, h domain.EventHandler)
	RemoveListener(event string, h domain.EventHandler)
}

// Backend allocates host nodes.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// CreateElement allocates a detached element. Namespace is empty for the default namespace.
	CreateElement(tag, namespace string) (Node, error)

	// CreateText allocates a detached text node.
	CreateText(text string) (Node, error)
}

// Suspender is implemented by container nodes that expose an external observation
// point (a paint step). Between Suspend and Resume no partially applied tree may be observed.
type Suspender interface {
	// Suspend freezes observation and returns the state Resume needs to restore it.
	Suspend() any
	Resume(saved any)
}

// Focuser is implemented by nodes that can take input focus.
type Focuser interface {
	Focus()
}
