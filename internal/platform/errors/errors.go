package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrMissingSelection  = errors.New("task and ticket are required")
	ErrUnknownTask       = errors.New("unknown task")
	ErrInvalidTransition = errors.New("invalid timer transition")
	ErrNoActiveEntry     = errors.New("no active entry")
	ErrActiveEntryExists = errors.New("an entry is already active")
	ErrEntryNotFound     = errors.New("entry not found")
)

// RemoteKind classifies failures reported by the remote issue tracker.
type RemoteKind string

const (
	RemoteTransient RemoteKind = "transient"
	RemotePermanent RemoteKind = "permanent"
	RemoteDuplicate RemoteKind = "duplicate"
)

// RemoteError wraps a tracker submission failure with its retry class.
type RemoteError struct {
	Kind RemoteKind
	Err  error
}

func (e *RemoteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("remote error (%s)", e.Kind)
	}
	return fmt.Sprintf("remote error (%s): %v", e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func NewRemoteError(kind RemoteKind, err error) *RemoteError {
	return &RemoteError{Kind: kind, Err: err}
}

func RemoteKindOf(err error) (RemoteKind, bool) {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Kind, true
	}
	return "", false
}

func IsDuplicate(err error) bool {
	kind, ok := RemoteKindOf(err)
	return ok && kind == RemoteDuplicate
}

func IsPermanent(err error) bool {
	kind, ok := RemoteKindOf(err)
	return ok && kind == RemotePermanent
}
