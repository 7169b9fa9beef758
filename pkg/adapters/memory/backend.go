package memory

import (
	"fmt"
	"sync"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// Backend implements ports.Backend with an in-memory, DOM-like display tree.
// Nodes are not safe for concurrent use; reads must be serialized with commits.
type Backend struct {
	mu      sync.Mutex
	focused *Node
	created int
}

// New creates a new in-memory backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (b *Backend) Name() string { return "memory" }

// CreateElement allocates a detached element node.
func (b *Backend) CreateElement(tag, namespace string) (ports.Node, error) {
	if tag == "" {
		return nil, fmt.Errorf("create element: empty tag")
	}
	b.count()
	return b.newNode(tag, namespace), nil
}

// CreateText allocates a detached text node.
func (b *Backend) CreateText(text string) (ports.Node, error) {
	b.count()
	return &Node{backend: b, isText: true, text: text}, nil
}

// NewRoot allocates a mount point for a container. It is not counted as created by the adapter.
func (b *Backend) NewRoot(tag string) *Node {
	return b.newNode(tag, "")
}

// Focused returns the node that last received focus, or nil.
func (b *Backend) Focused() *Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.focused
}

// Created returns how many nodes the adapter allocated through this backend.
func (b *Backend) Created() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.created
}

func (b *Backend) count() {
	b.mu.Lock()
	b.created++
	b.mu.Unlock()
}

func (b *Backend) newNode(tag, namespace string) *Node {
	return &Node{
		backend:   b,
		tag:       tag,
		namespace: namespace,
		attrs:     make(map[string]any),
		style:     make(map[string]string),
		listeners: make(map[string][]domain.EventHandler),
	}
}

// Node is one element or text node of the in-memory tree.
type Node struct {
	backend   *Backend
	tag       string
	namespace string
	isText    bool
	text      string
	attrs     map[string]any
	style     map[string]string
	listeners map[string][]domain.EventHandler

	parent   *Node
	children []*Node

	// Observation state, meaningful on mount points.
	suspended int
	frame     string
	paints    int
}

var (
	_ ports.Node      = (*Node)(nil)
	_ ports.Suspender = (*Node)(nil)
	_ ports.Focuser   = (*Node)(nil)
)

func asNode(n ports.Node) *Node {
	mn, ok := n.(*Node)
	if !ok {
		panic(fmt.Sprintf("memory: foreign node %T", n))
	}
	return mn
}

// SetAttribute assigns an attribute.
func (n *Node) SetAttribute(name string, value any) { n.attrs[name] = value }

// RemoveAttribute drops an attribute.
func (n *Node) RemoveAttribute(name string) { delete(n.attrs, name) }

// SetStyle assigns one style property.
func (n *Node) SetStyle(property, value string) { n.style[property] = value }

// RemoveStyle drops one style property.
func (n *Node) RemoveStyle(property string) { delete(n.style, property) }

// AppendChild adds child as the last child, moving it from a previous parent.
func (n *Node) AppendChild(child ports.Node) {
	c := asNode(child)
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

// InsertBefore adds child before reference. An unknown reference appends.
func (n *Node) InsertBefore(child, reference ports.Node) {
	c, ref := asNode(child), asNode(reference)
	if c.parent != nil {
		c.parent.detach(c)
	}
	idx := n.indexOf(ref)
	if idx < 0 {
		idx = len(n.children)
	}
	c.parent = n
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = c
}

// RemoveChild detaches child.
func (n *Node) RemoveChild(child ports.Node) {
	n.detach(asNode(child))
}

// SetText assigns the text payload.
func (n *Node) SetText(text string) { n.text = text }

// AddListener binds h to event. Binding the same handler twice is a no-op.
func (n *Node) AddListener(event string, h domain.EventHandler) {
	for _, existing := range n.listeners[event] {
		if domain.SameHandler(existing, h) {
			return
		}
	}
	n.listeners[event] = append(n.listeners[event], h)
}

// RemoveListener unbinds h from event.
func (n *Node) RemoveListener(event string, h domain.EventHandler) {
	hs := n.listeners[event]
	for i, existing := range hs {
		if domain.SameHandler(existing, h) {
			n.listeners[event] = append(hs[:i:i], hs[i+1:]...)
			break
		}
	}
	if len(n.listeners[event]) == 0 {
		delete(n.listeners, event)
	}
}

// Focus records n as the focused node of its backend.
func (n *Node) Focus() {
	n.backend.mu.Lock()
	n.backend.focused = n
	n.backend.mu.Unlock()
}

// Suspend freezes the visible frame until the matching Resume.
func (n *Node) Suspend() any {
	if n.suspended == 0 {
		n.frame = n.HTML()
	}
	n.suspended++
	return n.suspended - 1
}

// Resume restores the depth returned by Suspend and paints when observation resumes.
func (n *Node) Resume(saved any) {
	depth, _ := saved.(int)
	n.suspended = depth
	if depth == 0 {
		n.frame = ""
		n.paints++
	}
}

// Visible returns what an observer sees: the frozen frame while suspended, the live tree otherwise.
func (n *Node) Visible() string {
	if n.suspended > 0 {
		return n.frame
	}
	return n.HTML()
}

// Paints returns how many commits were painted on this mount point.
func (n *Node) Paints() int { return n.paints }

// Dispatch invokes every handler bound to event and returns how many ran.
func (n *Node) Dispatch(event string, data map[string]any) int {
	hs := append([]domain.EventHandler(nil), n.listeners[event]...)
	for _, h := range hs {
		h.HandleEvent(domain.Event{Type: event, Data: data})
	}
	return len(hs)
}

// Tag returns the element tag; empty for text nodes.
func (n *Node) Tag() string { return n.tag }

// Namespace returns the element namespace.
func (n *Node) Namespace() string { return n.namespace }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.isText }

// Text returns the text payload.
func (n *Node) Text() string { return n.text }

// Attr returns one attribute.
func (n *Node) Attr(name string) (any, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// Attrs returns a copy of the attributes.
func (n *Node) Attrs() map[string]any {
	out := make(map[string]any, len(n.attrs))
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

// Style returns one style property.
func (n *Node) Style(property string) (string, bool) {
	v, ok := n.style[property]
	return v, ok
}

// Listeners returns the handlers bound to event.
func (n *Node) Listeners(event string) []domain.EventHandler {
	return append([]domain.EventHandler(nil), n.listeners[event]...)
}

// ListenerCount returns the number of bindings across all events.
func (n *Node) ListenerCount() int {
	total := 0
	for _, hs := range n.listeners {
		total += len(hs)
	}
	return total
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

func (n *Node) indexOf(c *Node) int {
	for i, child := range n.children {
		if child == c {
			return i
		}
	}
	return -1
}

func (n *Node) detach(c *Node) {
	if idx := n.indexOf(c); idx >= 0 {
		n.children = append(n.children[:idx], n.children[idx+1:]...)
	}
	c.parent = nil
}
