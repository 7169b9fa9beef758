// Package reconciler is a small positional reconciler that drives a host.HostConfig
// in the documented call order: a render phase that materializes new subtrees,
// a commit phase bracketed by PrepareForCommit/ResetAfterCommit, then mounts.
//
// Children are matched by index and type only. There are no keys, priorities or
// interruptions.
package reconciler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/host"
)

// Reconciler diffs abstract trees against the last committed one.
type Reconciler struct {
	cfg    host.HostConfig
	logger *slog.Logger
}

// Option configures the Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// New creates a Reconciler driving cfg.
func New(cfg host.HostConfig, opts ...Option) *Reconciler {
	r := &Reconciler{
		cfg:    cfg,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MountError reports post-mount effects that failed after the commit became visible.
// The committed tree stands; the failed mounts are not retried.
type MountError struct {
	Err error
}

func (e *MountError) Error() string { return "mount: " + e.Err.Error() }

func (e *MountError) Unwrap() error { return e.Err }

// Container is the committed state of one mount point.
type Container struct {
	Root *host.Instance

	ctx      *host.Context
	tree     *domain.AbstractNode
	children []*fiber
	mounted  bool
	broken   bool
}

// fiber pairs a committed abstract node with its instance.
type fiber struct {
	node     domain.AbstractNode
	inst     *host.Instance
	ctx      *host.Context // context for the node's descendants
	children []*fiber
}

// NewContainer prepares a container session for root. The root context is derived once.
func (r *Reconciler) NewContainer(root *host.Instance) *Container {
	return &Container{
		Root: root,
		ctx:  r.cfg.RootHostContext(root),
	}
}

// Tree returns the last committed tree, or nil.
func (c *Container) Tree() *domain.AbstractNode { return c.tree }

// pass accumulates the work of one update.
type pass struct {
	cfg    host.HostConfig
	root   *host.Instance
	ops    []func() error
	mounts []*fiber
	finish []func()
}

// Update reconciles c against tree and commits the result. A nil tree empties the container.
// On a render phase error nothing is mutated. On a commit phase error the container is
// flagged and fully remounted by the next update. Every mount is attempted; failures
// are returned together as a *MountError.
func (r *Reconciler) Update(c *Container, tree *domain.AbstractNode) error {
	p := &pass{cfg: r.cfg, root: c.Root}

	var next []domain.AbstractNode
	if tree != nil {
		next = []domain.AbstractNode{*tree}
	}

	prev := c.children
	if !c.mounted || c.broken {
		// First render or recovery: start from an empty container.
		p.ops = append(p.ops, func() error { return r.cfg.ClearContainer(c.Root) })
		prev = nil
	}

	target := containerTarget{cfg: r.cfg, container: c.Root}
	children, err := p.reconcileChildren(target, prev, next, c.ctx)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := p.commit(); err != nil {
		c.broken = true
		return fmt.Errorf("commit: %w", err)
	}
	for _, fn := range p.finish {
		fn()
	}
	c.children = children
	c.tree = tree
	c.mounted = true
	c.broken = false

	var mountErrs []error
	for _, f := range p.mounts {
		if err := r.cfg.CommitMount(f.inst, f.node.Type, f.node.Props, f); err != nil {
			mountErrs = append(mountErrs, err)
		}
	}
	if len(mountErrs) > 0 {
		return &MountError{Err: errors.Join(mountErrs...)}
	}

	r.logger.Debug("reconciled container",
		"container", c.Root.ID(),
		"ops", len(p.ops),
		"mounts", len(p.mounts),
	)
	return nil
}

func (p *pass) commit() (err error) {
	if _, err := p.cfg.PrepareForCommit(p.root); err != nil {
		return err
	}
	defer func() {
		if rerr := p.cfg.ResetAfterCommit(p.root); err == nil {
			err = rerr
		}
	}()
	for _, op := range p.ops {
		if err := op(); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass) reconcileChildren(t target, prev []*fiber, next []domain.AbstractNode, ctx *host.Context) ([]*fiber, error) {
	out := make([]*fiber, 0, len(next))

	for i, n := range next {
		if i >= len(prev) {
			f, err := p.build(n, ctx)
			if err != nil {
				return nil, err
			}
			p.ops = append(p.ops, func() error { return t.append(f.inst) })
			out = append(out, f)
			continue
		}

		old := prev[i]
		if old.node.Type == n.Type {
			if err := p.update(old, n, ctx); err != nil {
				return nil, err
			}
			out = append(out, old)
			continue
		}

		f, err := p.build(n, ctx)
		if err != nil {
			return nil, err
		}
		p.ops = append(p.ops,
			func() error { return t.insertBefore(f.inst, old.inst) },
			func() error { return t.remove(old.inst) },
		)
		out = append(out, f)
	}

	for _, old := range prev[min(len(prev), len(next)):] {
		p.ops = append(p.ops, func() error { return t.remove(old.inst) })
	}
	return out, nil
}

// build materializes n and its subtree, unattached.
func (p *pass) build(n domain.AbstractNode, ctx *host.Context) (*fiber, error) {
	f := &fiber{node: n}

	if n.IsText() {
		inst, err := p.cfg.CreateTextInstance(n.Text, p.root, ctx, f)
		if err != nil {
			return nil, err
		}
		f.inst = inst
		return f, nil
	}

	inst, err := p.cfg.CreateInstance(n.Type, n.Props, p.root, ctx, f)
	if err != nil {
		return nil, err
	}
	f.inst = inst
	f.ctx = p.cfg.ChildHostContext(ctx, n.Type, p.root)

	if !p.cfg.ShouldSetTextContent(n.Type, n.Props) {
		for _, child := range n.Children {
			cf, err := p.build(child, f.ctx)
			if err != nil {
				return nil, err
			}
			if err := p.cfg.AppendInitialChild(inst, cf.inst); err != nil {
				return nil, err
			}
			f.children = append(f.children, cf)
		}
	}

	if p.cfg.FinalizeInitialChildren(inst, n.Type, n.Props, p.root, ctx) {
		p.mounts = append(p.mounts, f)
	}
	return f, nil
}

// update reconciles a committed fiber of the same type against n.
func (p *pass) update(f *fiber, n domain.AbstractNode, ctx *host.Context) error {
	old := f.node
	p.finish = append(p.finish, func() { f.node = n })

	if n.IsText() {
		if old.Text != n.Text {
			p.ops = append(p.ops, func() error { return p.cfg.CommitTextUpdate(f.inst, old.Text, n.Text) })
		}
		return nil
	}

	wasText := p.cfg.ShouldSetTextContent(old.Type, old.Props)
	isText := p.cfg.ShouldSetTextContent(n.Type, n.Props)

	if wasText && !isText {
		p.ops = append(p.ops, func() error { return p.cfg.ResetTextContent(f.inst) })
	}

	payload, err := p.cfg.PrepareUpdate(f.inst, n.Type, old.Props, n.Props)
	if err != nil {
		return err
	}
	if payload != nil {
		p.ops = append(p.ops, func() error {
			return p.cfg.CommitUpdate(f.inst, payload, n.Type, old.Props, n.Props, f)
		})
	}

	prevChildren := f.children
	if wasText {
		prevChildren = nil
	}
	var nextChildren []domain.AbstractNode
	if !isText {
		nextChildren = n.Children
	}

	target := elementTarget{cfg: p.cfg, parent: f.inst}
	children, err := p.reconcileChildren(target, prevChildren, nextChildren, f.ctx)
	if err != nil {
		return err
	}
	p.finish = append(p.finish, func() { f.children = children })
	return nil
}

// Clear empties the container with one ClearContainer inside a commit bracket.
func (r *Reconciler) Clear(c *Container) error {
	p := &pass{cfg: r.cfg, root: c.Root}
	p.ops = append(p.ops, func() error { return r.cfg.ClearContainer(c.Root) })
	if err := p.commit(); err != nil {
		c.broken = true
		return fmt.Errorf("commit: %w", err)
	}
	c.children = nil
	c.tree = nil
	return nil
}
