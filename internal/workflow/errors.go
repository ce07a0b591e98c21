package workflow

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure for the caller's retry policy. The
// pipeline itself never retries.
type Kind int

const (
	// KindRetryable marks transient upstream failures (network errors,
	// board API non-2xx, generation call errors).
	KindRetryable Kind = iota
	// KindPermanent marks failures a retry cannot fix: missing credentials,
	// a board that does not exist, or an ambiguous project name.
	KindPermanent
)

func (k Kind) String() string {
	if k == KindPermanent {
		return "permanent"
	}
	return "retryable"
}

// Sentinel resolution failures. Ambiguity is deliberately distinct from
// "not found" so callers can surface different messages.
var (
	ErrBoardNotFound  = errors.New("no board matches the project name")
	ErrAmbiguousBoard = errors.New("project name matches more than one board")
)

// Error is a terminal pipeline failure, carrying the stage it happened in
// and its retry classification.
type Error struct {
	Stage Stage
	Kind  Kind
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("workflow: %s stage failed (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether err is a pipeline failure the caller may retry.
func Retryable(err error) bool {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind == KindRetryable
	}
	return false
}

func failed(st State, stage Stage, kind Kind, err error) (State, error) {
	st.Stage = StageFailed
	return st, &Error{Stage: stage, Kind: kind, Err: err}
}
