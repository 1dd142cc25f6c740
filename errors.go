package transfer

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfBounds reports a slot index outside [0, Size()).
	ErrIndexOutOfBounds = errors.New("transfer: index out of bounds")
	// ErrTransactionClosed reports use of a transaction after Commit or Rollback.
	ErrTransactionClosed = errors.New("transfer: transaction already closed")
	// ErrUnknownSavepoint reports a savepoint that does not belong to the transaction.
	ErrUnknownSavepoint = errors.New("transfer: unknown savepoint")
)

// IndexError captures the offending index alongside the handler size.
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("transfer: index %d out of bounds for size %d", e.Index, e.Size)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfBounds
}

// CheckIndex returns an *IndexError when index is outside [0, size).
func CheckIndex(index, size int) error {
	if index < 0 || index >= size {
		return &IndexError{Index: index, Size: size}
	}
	return nil
}

var errMoveAborted = errors.New("transfer: move aborted")
