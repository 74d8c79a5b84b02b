package services

import (
	"errors"
	"fmt"

	"github.com/hkim/restock/pkg/domain/entities"
)

// ErrStale marks a projection that was superseded by a newer filter while
// its fetches were still in flight. The result is discarded, never applied.
var ErrStale = errors.New("projection superseded by a newer filter")

// ValidationError reports input rejected at the boundary before it reaches
// the workflow state. Invalid values are never stored.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransientError wraps a failed collaborator call. The operation is
// recoverable: prior state is retained and the call can simply be retried.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// BatchConfirmFailure attributes one failed confirmation within a batch to
// its order id so the caller can retry exactly the failed ids.
type BatchConfirmFailure struct {
	OrderID entities.OrderID
	Err     error
}

// BatchConfirmResult reports the outcome of a batch receipt confirmation.
// Confirmed counts the transitions that committed before and between
// failures; there is no rollback.
type BatchConfirmResult struct {
	Confirmed int
	Failures  []BatchConfirmFailure
}

// AllConfirmed reports whether every confirmation in the batch succeeded.
func (r BatchConfirmResult) AllConfirmed() bool {
	return len(r.Failures) == 0
}

// FailedIDs returns the order ids eligible for retry, in batch order.
func (r BatchConfirmResult) FailedIDs() []entities.OrderID {
	ids := make([]entities.OrderID, 0, len(r.Failures))
	for _, f := range r.Failures {
		ids = append(ids, f.OrderID)
	}
	return ids
}
