package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the adapter contract. Every typed error below unwraps to one of them,
// so callers can match with errors.Is and still inspect details with errors.As.
var (
	// ErrInvalidType is returned when a node type is not a known instance kind.
	ErrInvalidType = errors.New("invalid instance type")

	// ErrReferenceNotFound is returned when an insert-before reference is not a child of the target.
	ErrReferenceNotFound = errors.New("reference child not found")

	// ErrDetachedMutation is returned when a mutation targets an instance outside every live tree.
	ErrDetachedMutation = errors.New("mutation on detached instance")

	// ErrInvalidProps is returned when raw props cannot be decoded into Props.
	ErrInvalidProps = errors.New("invalid props")

	// ErrMountNotRequested is returned when CommitMount targets an instance that did not ask for it.
	ErrMountNotRequested = errors.New("mount not requested")

	// ErrCommitBracket is returned when PrepareForCommit and ResetAfterCommit are unbalanced.
	ErrCommitBracket = errors.New("unbalanced commit bracket")

	// ErrSessionNotFound is returned when a container session ID cannot be found.
	ErrSessionNotFound = errors.New("session not found")
)

// InvalidTypeError reports a node type the adapter cannot materialize or a
// structural operation the instance kind does not support.
type InvalidTypeError struct {
	Type   string
	Reason string
}

func (e *InvalidTypeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unknown instance type %q", e.Type)
	}
	return fmt.Sprintf("instance type %q: %s", e.Type, e.Reason)
}

func (e *InvalidTypeError) Unwrap() error { return ErrInvalidType }

// ReferenceNotFoundError reports a reference child missing from the target's child list.
type ReferenceNotFoundError struct {
	Op        string
	Parent    string
	Reference string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s is not a child of %s", e.Op, e.Reference, e.Parent)
}

func (e *ReferenceNotFoundError) Unwrap() error { return ErrReferenceNotFound }

// DetachedMutationError reports a mutation against an instance no longer part of any live tree.
type DetachedMutationError struct {
	Op       string
	Instance string
}

func (e *DetachedMutationError) Error() string {
	return fmt.Sprintf("%s: %s is detached", e.Op, e.Instance)
}

func (e *DetachedMutationError) Unwrap() error { return ErrDetachedMutation }

// InvalidPropsError wraps a props decoding failure for a node type.
type InvalidPropsError struct {
	Type string
	Err  error
}

func (e *InvalidPropsError) Error() string {
	return fmt.Sprintf("invalid props for %q: %v", e.Type, e.Err)
}

func (e *InvalidPropsError) Unwrap() []error { return []error{ErrInvalidProps, e.Err} }

// MountNotRequestedError reports a CommitMount for an instance whose FinalizeInitialChildren returned false.
type MountNotRequestedError struct {
	Instance string
}

func (e *MountNotRequestedError) Error() string {
	return fmt.Sprintf("commit mount: %s did not request a mount effect", e.Instance)
}

func (e *MountNotRequestedError) Unwrap() error { return ErrMountNotRequested }

// CommitBracketError reports a nested PrepareForCommit or an unmatched ResetAfterCommit.
type CommitBracketError struct {
	Op        string
	Container string
}

func (e *CommitBracketError) Error() string {
	return fmt.Sprintf("%s: unbalanced commit bracket on %s", e.Op, e.Container)
}

func (e *CommitBracketError) Unwrap() error { return ErrCommitBracket }
