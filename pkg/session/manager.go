package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/internal/reconciler"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/host"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed container lock is held.
const DefaultLockTTL = 30 * time.Second

// Session is the handle of one attached root host object.
type Session struct {
	ID   string
	Root ports.Node

	container    *reconciler.Container
	parentHandle any
	detached     bool
}

// Container returns the container instance wrapping the root.
func (s *Session) Container() *host.Instance { return s.container.Root }

// Tree returns the last committed abstract tree.
func (s *Session) Tree() *domain.AbstractNode { return s.container.Tree() }

// Sequence returns the number of commits applied to the container.
func (s *Session) Sequence() uint64 { return s.container.Root.Sequence() }

// ParentHandle returns the engine handle passed with the last update.
func (s *Session) ParentHandle() any { return s.parentHandle }

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager owns the container sessions of one adapter.
type Manager struct {
	adapter    *host.Adapter
	reconciler *reconciler.Reconciler
	store      ports.SnapshotStore

	mu       sync.Mutex // guards the maps below
	sessions map[ports.Node]*Session
	byID     map[string]*Session
	locks    map[string]*lockEntry

	locker   ports.DistributedLocker
	lockTTL  time.Duration
	schedule func(func())
	logger   *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the TTL of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithScheduler sets how update callbacks are run. The default runs them
// synchronously once the commit is visible.
func WithScheduler(schedule func(func())) Option {
	return func(m *Manager) {
		m.schedule = schedule
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager driving adapter and persisting snapshots to store.
func NewManager(adapter *host.Adapter, store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		adapter:  adapter,
		store:    store,
		sessions: make(map[ports.Node]*Session),
		byID:     make(map[string]*Session),
		locks:    make(map[string]*lockEntry),
		lockTTL:  DefaultLockTTL,
		schedule: func(fn func()) { fn() },
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.reconciler = reconciler.New(adapter, reconciler.WithLogger(m.logger))
	return m
}

// Attach returns the session of root, creating it on first use.
// The root must be comparable, as host nodes usually are pointers.
func (m *Manager) Attach(root ports.Node) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[root]; ok {
		return s
	}
	id := uuid.NewString()
	s := &Session{
		ID:        id,
		Root:      root,
		container: m.reconciler.NewContainer(m.adapter.Container(root, id)),
	}
	m.sessions[root] = s
	m.byID[id] = s
	m.logger.Debug("container attached", "container_id", id)
	return s
}

// Lookup returns the session attached to root.
func (m *Manager) Lookup(root ports.Node) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[root]
	return s, ok
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return s, nil
}

// List returns the IDs of the attached sessions, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.byID))
	for id := range m.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Store returns the snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// Update reconciles the session against tree and commits. Concurrent updates of one
// session run one after another, each in full. The callback is scheduled after the
// commit is visible.
func (m *Manager) Update(ctx context.Context, tree *domain.AbstractNode, s *Session, parentHandle any, callback func()) error {
	return m.withLock(ctx, s.ID, func(ctx context.Context) error {
		if s.detached {
			return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, s.ID)
		}
		s.parentHandle = parentHandle

		// A mount failure leaves the commit visible, so it is still snapshotted.
		err := m.reconciler.Update(s.container, tree)
		var mountErr *reconciler.MountError
		if err != nil && !errors.As(err, &mountErr) {
			return fmt.Errorf("update container %s: %w", s.ID, err)
		}

		snap := domain.NewSnapshot(s.ID, s.Sequence(), tree, host.Outline(s.container.Root))
		if err := m.store.Save(ctx, s.ID, snap); err != nil {
			m.logger.Warn("Failed to save container snapshot",
				"container_id", s.ID,
				"err", err,
			)
		}
		if mountErr != nil {
			return fmt.Errorf("update container %s: %w", s.ID, err)
		}

		if callback != nil {
			m.schedule(callback)
		}
		return nil
	})
}

// Detach clears the container, deletes its snapshot and forgets the session.
func (m *Manager) Detach(ctx context.Context, s *Session) error {
	return m.withLock(ctx, s.ID, func(ctx context.Context) error {
		if s.detached {
			return nil
		}
		if err := m.reconciler.Clear(s.container); err != nil {
			return fmt.Errorf("detach container %s: %w", s.ID, err)
		}
		s.detached = true

		m.mu.Lock()
		delete(m.sessions, s.Root)
		delete(m.byID, s.ID)
		m.mu.Unlock()

		if err := m.store.Delete(ctx, s.ID); err != nil {
			m.logger.Warn("Failed to delete container snapshot",
				"container_id", s.ID,
				"err", err,
			)
		}
		m.logger.Debug("container detached", "container_id", s.ID)
		return nil
	})
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// withLock executes fn while holding the lock for the container.
func (m *Manager) withLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"container_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
