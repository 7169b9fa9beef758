package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// Kind is the construction and update strategy for one node type.
type Kind struct {
	// Name is the node type string used by the abstract tree.
	Name string

	// Tag is the backend element tag. Defaults to Name.
	Tag string

	// Namespace, when set, switches the host context namespace for the kind and its descendants.
	Namespace string

	// Inline marks phrasing content; descendants see Inline in their host context.
	Inline bool

	// OpaqueText means the kind's text is always set on the node itself, never as child instances.
	OpaqueText bool

	// Init applies kind specific creation-time configuration after the common props.
	Init func(node ports.Node, props domain.Props) error

	// Mount performs the one-time post-mount effect. Nil focuses nodes that implement ports.Focuser.
	Mount func(node ports.Node, props domain.Props) error
}

// ElementTag returns the backend tag for the kind.
func (k Kind) ElementTag() string {
	if k.Tag != "" {
		return k.Tag
	}
	return k.Name
}

// Registry manages the known instance kinds.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		kinds: make(map[string]Kind),
	}
}

// Register adds a kind to the registry.
// If a kind with the same name exists, it is overwritten.
func (r *Registry) Register(k Kind) error {
	if k.Name == "" {
		return fmt.Errorf("register kind: name is empty")
	}
	if k.Name == domain.TextType {
		return fmt.Errorf("register kind: %q is reserved for text instances", k.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[k.Name] = k
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kinds ...Kind) *Registry {
	for _, k := range kinds {
		if err := r.Register(k); err != nil {
			panic(err)
		}
	}
	return r
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	return k, ok
}

// Names returns the registered kind names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every type of tree against the registry.
// All unknown types are reported, joined into one error.
func (r *Registry) Validate(tree domain.AbstractNode) error {
	var errs []error
	seen := make(map[string]bool)
	tree.Walk(func(n domain.AbstractNode) bool {
		if n.IsText() || seen[n.Type] {
			return true
		}
		seen[n.Type] = true
		if _, ok := r.Lookup(n.Type); !ok {
			errs = append(errs, &domain.InvalidTypeError{Type: n.Type})
		}
		return true
	})
	return errors.Join(errs...)
}
