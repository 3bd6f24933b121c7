package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced person, family line or edge does not exist
	ErrNotFound = errors.New("not found")

	// ErrEdgeExists means AddEdge was asked to create a connection the
	// owner already has; callers should use UpdateEdge instead
	ErrEdgeExists = errors.New("family connection already exists")

	// ErrVersionConflict means a document write lost the optimistic
	// concurrency check; the caller re-reads and retries
	ErrVersionConflict = errors.New("document version conflict")

	// ErrStoreUnavailable means the document store could not be reached.
	// Never retried internally; a retry of a half-finished two-document
	// write could duplicate edges
	ErrStoreUnavailable = errors.New("store unavailable")
)

// PartialApplyError reports that a two-document operation landed on one
// side only. It is never folded into plain success or plain failure: one
// person's family line now disagrees with the other's, and the
// reconciliation sweep (or a caller retry) has to finish the job
type PartialApplyError struct {
	Op            string // "add" or "remove"
	OwnerID       int64
	TargetID      int64
	OwnerWritten  bool
	TargetWritten bool
	Cause         error
}

func (e *PartialApplyError) Error() string {
	side := "owner"
	if !e.OwnerWritten {
		side = "target"
	}
	return fmt.Sprintf("%s edge %d<->%d partially applied (only %s side written): %v",
		e.Op, e.OwnerID, e.TargetID, side, e.Cause)
}

func (e *PartialApplyError) Unwrap() error {
	return e.Cause
}
