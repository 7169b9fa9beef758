package domain

import "time"

// MutationEvent describes one applied host mutation.
type MutationEvent struct {
	Op       string // e.g. "appendChild", "commitUpdate"
	Type     string // node type of the target instance
	Instance string

	// InCommit is false for render-phase mutations of unattached subtrees
	// (appendInitialChild), which may belong to a pass that never commits.
	InCommit bool
}

// CommitEvent describes one prepareForCommit/resetAfterCommit bracket.
type CommitEvent struct {
	Container string
	Sequence  uint64
	Mutations int
	Duration  time.Duration
}

// MountEvent describes one post-mount side effect.
type MountEvent struct {
	Instance string
	Type     string
}

// CommitHooks defines callbacks for adapter observability.
// Hooks run synchronously on the committing goroutine and must not call back into the adapter.
type CommitHooks struct {
	OnPrepareCommit func(container string)
	OnCommit        func(*CommitEvent)
	OnMutation      func(*MutationEvent)
	OnMount         func(*MountEvent)
}

// ChainHooks returns hooks that invoke every non-nil hook of hs in order.
func ChainHooks(hs ...CommitHooks) CommitHooks {
	return CommitHooks{
		OnPrepareCommit: func(container string) {
			for _, h := range hs {
				if h.OnPrepareCommit != nil {
					h.OnPrepareCommit(container)
				}
			}
		},
		OnCommit: func(e *CommitEvent) {
			for _, h := range hs {
				if h.OnCommit != nil {
					h.OnCommit(e)
				}
			}
		},
		OnMutation: func(e *MutationEvent) {
			for _, h := range hs {
				if h.OnMutation != nil {
					h.OnMutation(e)
				}
			}
		},
		OnMount: func(e *MountEvent) {
			for _, h := range hs {
				if h.OnMount != nil {
					h.OnMount(e)
				}
			}
		},
	}
}
