package host

import (
	"fmt"
	"time"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// PrepareForCommit opens the commit bracket of container. When the mount point implements
// ports.Suspender, observation is suspended and the returned token is what Suspend saved.
func (a *Adapter) PrepareForCommit(container *Instance) (any, error) {
	if err := requireContainer("prepareForCommit", container); err != nil {
		return nil, err
	}
	cs := container.container
	if cs.committing {
		return nil, &domain.CommitBracketError{Op: "prepareForCommit", Container: container.id}
	}
	cs.committing = true
	cs.start = time.Now()
	cs.mutations = 0
	cs.saved = nil
	if s, ok := container.node.(ports.Suspender); ok {
		cs.saved = s.Suspend()
	}
	if a.hooks.OnPrepareCommit != nil {
		a.hooks.OnPrepareCommit(container.id)
	}
	return cs.saved, nil
}

// ResetAfterCommit closes the commit bracket and restores what PrepareForCommit saved.
func (a *Adapter) ResetAfterCommit(container *Instance) error {
	if err := requireContainer("resetAfterCommit", container); err != nil {
		return err
	}
	cs := container.container
	if !cs.committing {
		return &domain.CommitBracketError{Op: "resetAfterCommit", Container: container.id}
	}
	if s, ok := container.node.(ports.Suspender); ok {
		s.Resume(cs.saved)
	}
	cs.saved = nil
	cs.committing = false
	seq := cs.seq.Add(1)

	a.logger.Debug("host commit",
		"container", container.id,
		"sequence", seq,
		"mutations", cs.mutations,
	)
	if a.hooks.OnCommit != nil {
		a.hooks.OnCommit(&domain.CommitEvent{
			Container: container.id,
			Sequence:  seq,
			Mutations: cs.mutations,
			Duration:  time.Since(cs.start),
		})
	}
	return nil
}

// CommitMount performs the post-mount effect of an attached instance that requested it
// from FinalizeInitialChildren. The effect runs once; later calls are no-ops.
func (a *Adapter) CommitMount(inst *Instance, typ string, props map[string]any, handle any) error {
	if err := live("commitMount", inst); err != nil {
		return err
	}
	if !inst.attached() {
		return &domain.DetachedMutationError{Op: "commitMount", Instance: inst.id}
	}
	if !inst.needsMount {
		return &domain.MountNotRequestedError{Instance: inst.id}
	}
	if inst.mounted {
		return nil
	}

	p, err := a.decode(typ, props)
	if err != nil {
		return err
	}
	if inst.kind.Mount != nil {
		if err := inst.kind.Mount(inst.node, p); err != nil {
			return fmt.Errorf("mount %s: %w", inst.id, err)
		}
	} else if f, ok := inst.node.(ports.Focuser); ok {
		f.Focus()
	}
	inst.mounted = true

	a.logger.Debug("host mount", "type", inst.typ, "instance", inst.id)
	if a.hooks.OnMount != nil {
		a.hooks.OnMount(&domain.MountEvent{Instance: inst.id, Type: inst.typ})
	}
	return nil
}
