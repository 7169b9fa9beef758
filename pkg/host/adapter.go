package host

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/aretw0/graft/pkg/registry"
)

// Adapter implements HostConfig on top of a ports.Backend.
// One Adapter may serve several containers.
type Adapter struct {
	backend  ports.Backend
	registry *registry.Registry
	logger   *slog.Logger
	hooks    domain.CommitHooks

	nextID atomic.Uint64
}

var _ HostConfig = (*Adapter)(nil)

// Option configures the Adapter.
type Option func(*Adapter)

// WithRegistry sets the kind registry. Defaults to registry.Default().
func WithRegistry(r *registry.Registry) Option {
	return func(a *Adapter) {
		a.registry = r
	}
}

// WithLogger sets the logger used for mutation tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithHooks sets the observability hooks.
func WithHooks(hooks domain.CommitHooks) Option {
	return func(a *Adapter) {
		a.hooks = hooks
	}
}

// New creates an Adapter over backend.
func New(backend ports.Backend, opts ...Option) *Adapter {
	a := &Adapter{
		backend: backend,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = registry.Default()
	}
	return a
}

// Backend returns the backend the adapter allocates nodes from.
func (a *Adapter) Backend() ports.Backend { return a.backend }

// Registry returns the kind registry.
func (a *Adapter) Registry() *registry.Registry { return a.registry }

// Container wraps a mount point. An empty id gets a generated label.
func (a *Adapter) Container(node ports.Node, id string) *Instance {
	if id == "" {
		id = a.label("container")
	}
	c := &Instance{
		id:   id,
		typ:  "container",
		node: node,
		container: &containerState{
			contexts: make(map[contextKey]*Context),
		},
	}
	c.root = c
	return c
}

func (a *Adapter) label(typ string) string {
	return fmt.Sprintf("%s#%d", typ, a.nextID.Add(1))
}

func (a *Adapter) decode(typ string, raw map[string]any) (domain.Props, error) {
	p, err := domain.DecodeProps(raw)
	if err != nil {
		return p, &domain.InvalidPropsError{Type: typ, Err: err}
	}
	return p, nil
}

// live fails with DetachedMutationError when any instance was removed.
func live(op string, insts ...*Instance) error {
	for _, inst := range insts {
		if inst.detached {
			return &domain.DetachedMutationError{Op: op, Instance: inst.id}
		}
	}
	return nil
}

// trace logs one applied mutation and feeds the hooks.
func (a *Adapter) trace(op string, inst *Instance) {
	a.logger.Debug("host mutation", "op", op, "type", inst.typ, "instance", inst.id)
	inCommit := false
	if root := inst.root; root != nil && root.container != nil && root.container.committing {
		root.container.mutations++
		inCommit = true
	}
	if a.hooks.OnMutation != nil {
		a.hooks.OnMutation(&domain.MutationEvent{Op: op, Type: inst.typ, Instance: inst.id, InCommit: inCommit})
	}
}
