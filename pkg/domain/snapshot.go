package domain

import (
	"fmt"
	"time"
)

// Snapshot represents the committed state of one container session.
type Snapshot struct {
	// ContainerID identifies the session the snapshot belongs to.
	ContainerID string `json:"container_id"`

	// Sequence is the number of commits applied to the container so far.
	Sequence uint64 `json:"sequence"`

	// Tree is the abstract tree of the last commit. Nil after an unmount.
	Tree *AbstractNode `json:"tree,omitempty"`

	// Outline is a printable rendering of the host tree after the commit.
	Outline string `json:"outline"`

	// CommittedAt is when the commit completed.
	CommittedAt time.Time `json:"committed_at"`
}

// NewSnapshot creates a snapshot stamped with the current time.
// The tree is copied with Portable so the snapshot can be serialized.
func NewSnapshot(containerID string, seq uint64, tree *AbstractNode, outline string) *Snapshot {
	var t *AbstractNode
	if tree != nil {
		p := Portable(*tree)
		t = &p
	}
	return &Snapshot{
		ContainerID: containerID,
		Sequence:    seq,
		Tree:        t,
		Outline:     outline,
		CommittedAt: time.Now(),
	}
}

// Portable returns a copy of n where every event handler prop is replaced by a
// "handler:<name>" placeholder string.
func Portable(n AbstractNode) AbstractNode {
	out := n.Clone()
	out.Walk(func(c AbstractNode) bool {
		for k, v := range c.Props {
			if h, ok := v.(EventHandler); ok {
				c.Props[k] = HandlerRef(h)
			}
		}
		return true
	})
	return out
}

// HandlerRef names a handler for display and persistence.
func HandlerRef(h EventHandler) string {
	if l, ok := h.(*Listener); ok {
		return "handler:" + l.Name
	}
	return fmt.Sprintf("handler:%T", h)
}
