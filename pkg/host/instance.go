package host

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/aretw0/graft/pkg/registry"
)

// Instance is an adapter-owned node of the host tree, wrapping a backend node.
// Containers are Instances too: they wrap the externally supplied mount point.
type Instance struct {
	id     string
	typ    string
	kind   registry.Kind
	node   ports.Node
	isText bool
	text   string

	props     domain.Props
	listeners map[string]domain.EventHandler
	handle    any
	ctx       *Context

	root     *Instance
	parent   *Instance
	children []*Instance

	detached   bool
	needsMount bool
	mounted    bool

	container *containerState
}

// containerState is the per-container bookkeeping of the commit coordinator.
type containerState struct {
	committing bool
	saved      any
	start      time.Time
	mutations  int
	seq        atomic.Uint64 // read without the session lock

	ctxMu    sync.Mutex
	contexts map[contextKey]*Context
}

// ID returns the unique label of the instance, e.g. "span#3".
func (i *Instance) ID() string { return i.id }

// String implements fmt.Stringer.
func (i *Instance) String() string { return i.id }

// Type returns the node type the instance was created for.
func (i *Instance) Type() string { return i.typ }

// Node returns the wrapped backend node.
func (i *Instance) Node() ports.Node { return i.node }

// Parent returns the parent instance, or nil when unattached or top-level in a container.
func (i *Instance) Parent() *Instance { return i.parent }

// Children returns a copy of the ordered child list.
func (i *Instance) Children() []*Instance {
	return append([]*Instance(nil), i.children...)
}

// IsText reports whether the instance is a TextInstance.
func (i *Instance) IsText() bool { return i.isText }

// IsContainer reports whether the instance wraps a mount point.
func (i *Instance) IsContainer() bool { return i.container != nil }

// IsDetached reports whether the instance was removed from its tree.
func (i *Instance) IsDetached() bool { return i.detached }

// Text returns the text payload of a TextInstance, or the direct text of a structural instance.
func (i *Instance) Text() string {
	if i.isText {
		return i.text
	}
	return i.props.Text
}

// Props returns the decoded props last applied to the instance.
func (i *Instance) Props() domain.Props { return i.props }

// Handle returns the engine correlation token passed at creation or last update.
func (i *Instance) Handle() any { return i.handle }

// HostContext returns the context the instance was created under.
func (i *Instance) HostContext() *Context { return i.ctx }

// Listener returns the handler currently bound to event.
func (i *Instance) Listener(event string) domain.EventHandler {
	return i.listeners[event]
}

// Sequence returns the number of completed commits of a container.
func (i *Instance) Sequence() uint64 {
	if i.container == nil {
		return 0
	}
	return i.container.seq.Load()
}

func (i *Instance) indexOf(c *Instance) int {
	for idx, child := range i.children {
		if child == c {
			return idx
		}
	}
	return -1
}

func (i *Instance) unlink(c *Instance) {
	if idx := i.indexOf(c); idx >= 0 {
		i.children = append(i.children[:idx], i.children[idx+1:]...)
	}
	c.parent = nil
}

// ancestorOf reports whether i is n or one of n's ancestors.
func (i *Instance) ancestorOf(n *Instance) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur == i {
			return true
		}
	}
	return false
}

// attached reports whether the instance is reachable from a container.
func (i *Instance) attached() bool {
	for cur := i; cur != nil; cur = cur.parent {
		if cur.container != nil {
			return true
		}
	}
	return false
}
