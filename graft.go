package graft

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/host"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/aretw0/graft/pkg/registry"
	"github.com/aretw0/graft/pkg/session"
)

// Version is the graft release.
const Version = "0.1.0"

// Renderer is the high-level entry point for the graft library.
// Several Renderers may coexist; each owns its adapter and sessions.
type Renderer struct {
	adapter  *host.Adapter
	sessions *session.Manager

	registry  *registry.Registry
	hooks     domain.CommitHooks
	store     ports.SnapshotStore
	locker    ports.DistributedLocker
	lockTTL   time.Duration
	scheduler func(func())
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Renderer.
type Option func(*Renderer)

// WithRegistry sets the instance kinds. Defaults to registry.Default().
func WithRegistry(r *registry.Registry) Option {
	return func(rd *Renderer) {
		rd.registry = r
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.CommitHooks) Option {
	return func(rd *Renderer) {
		rd.hooks = hooks
	}
}

// WithStore sets the snapshot store. Defaults to an in-memory store.
func WithStore(store ports.SnapshotStore) Option {
	return func(rd *Renderer) {
		rd.store = store
	}
}

// WithLocker enables distributed locking of container updates.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(rd *Renderer) {
		rd.locker = locker
		rd.lockTTL = ttl
	}
}

// WithScheduler sets how render callbacks are run.
func WithScheduler(schedule func(func())) Option {
	return func(rd *Renderer) {
		rd.scheduler = schedule
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(rd *Renderer) {
		rd.logger = logger
	}
}

// New creates a Renderer over backend.
func New(backend ports.Backend, opts ...Option) *Renderer {
	rd := &Renderer{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(rd)
	}
	if rd.registry == nil {
		rd.registry = registry.Default()
	}
	if rd.store == nil {
		rd.store = memory.NewStore()
	}

	rd.adapter = host.New(backend,
		host.WithRegistry(rd.registry),
		host.WithHooks(rd.hooks),
		host.WithLogger(rd.logger),
	)

	sessOpts := []session.Option{session.WithLogger(rd.logger)}
	if rd.locker != nil {
		sessOpts = append(sessOpts, session.WithLocker(rd.locker))
		if rd.lockTTL > 0 {
			sessOpts = append(sessOpts, session.WithLockTTL(rd.lockTTL))
		}
	}
	if rd.scheduler != nil {
		sessOpts = append(sessOpts, session.WithScheduler(rd.scheduler))
	}
	rd.sessions = session.NewManager(rd.adapter, rd.store, sessOpts...)
	return rd
}

// Render commits tree into root. The first call against a root opens its container
// session; later calls update it. The callback runs once the commit is visible.
func (rd *Renderer) Render(ctx context.Context, tree domain.AbstractNode, root ports.Node, callback func()) error {
	s := rd.sessions.Attach(root)
	return rd.sessions.Update(ctx, &tree, s, nil, callback)
}

// Unmount clears root and closes its session. Unmounting a root that was never
// rendered into is a no-op.
func (rd *Renderer) Unmount(ctx context.Context, root ports.Node) error {
	s, ok := rd.sessions.Lookup(root)
	if !ok {
		return nil
	}
	return rd.sessions.Detach(ctx, s)
}

// Sessions returns the session manager.
func (rd *Renderer) Sessions() *session.Manager { return rd.sessions }

// Adapter returns the host adapter.
func (rd *Renderer) Adapter() *host.Adapter { return rd.adapter }

// Store returns the snapshot store.
func (rd *Renderer) Store() ports.SnapshotStore { return rd.store }
