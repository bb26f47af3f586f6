// Package store defines the persistence interfaces for submissions.
// The in-memory implementation under memory/ is the only backend; the
// interface exists so handlers never touch concrete storage and a durable
// implementation can replace it without touching the pipeline.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/formgate/formgate-backend/types"
)

// ErrNotFound is returned when a submission id does not exist in the store.
var ErrNotFound = errors.New("submission not found")

// SubmissionStore holds accepted form submissions.
type SubmissionStore interface {
	// Insert persists a new submission and returns its generated id.
	// The record's ID, Date and Status fields are assigned by the store.
	Insert(ctx context.Context, sub *types.Submission) (string, error)

	// UpdateStatus moves a submission forward in its lifecycle. errDetail is
	// recorded only for failed dispatches. Backward transitions are rejected.
	UpdateStatus(ctx context.Context, id string, status types.SubmissionStatus, errDetail string) error

	// List returns submissions of the given form kind in insertion order.
	// An empty kind returns everything.
	List(ctx context.Context, form types.FormKind) ([]*types.Submission, error)

	// DeleteExpired removes submissions older than maxAge and reports how many
	// were swept.
	DeleteExpired(ctx context.Context, maxAge time.Duration) (int, error)
}
