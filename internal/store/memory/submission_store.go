// Package memory provides the volatile, process-local submission store.
// Everything here is lost on restart; that is the storage contract, not a gap.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/formgate/formgate-backend/internal/store"
	"github.com/formgate/formgate-backend/types"
	"github.com/google/uuid"
)

// SubmissionStore keeps submissions in insertion order with an id index.
// Records are replaced wholesale on mutation so a concurrent reader or the
// sweep never observes a half-written record.
type SubmissionStore struct {
	mu      sync.RWMutex
	ordered []*types.Submission
	byID    map[string]int
}

// New creates an empty in-memory submission store.
func New() *SubmissionStore {
	return &SubmissionStore{
		byID: make(map[string]int),
	}
}

var _ store.SubmissionStore = (*SubmissionStore)(nil)

// Insert assigns id, timestamp and pending status on the caller's record,
// then persists an independent copy.
func (s *SubmissionStore) Insert(_ context.Context, sub *types.Submission) (string, error) {
	sub.ID = uuid.New().String()
	sub.Date = time.Now().UTC()
	sub.Status = types.StatusPending
	record := *sub

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ordered = append(s.ordered, &record)
	s.byID[record.ID] = len(s.ordered) - 1
	return record.ID, nil
}

// UpdateStatus replaces the stored record with a cloned, updated copy.
// Only forward transitions out of pending are applied.
func (s *SubmissionStore) UpdateStatus(_ context.Context, id string, status types.SubmissionStatus, errDetail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return store.ErrNotFound
	}

	current := s.ordered[idx]
	if current.Status != types.StatusPending {
		// Terminal states are immutable.
		return nil
	}

	updated := *current
	updated.Status = status
	if status == types.StatusFailed {
		updated.Error = errDetail
	}
	s.ordered[idx] = &updated
	return nil
}

// List returns a snapshot of submissions in insertion order, filtered by form
// kind when one is given.
func (s *SubmissionStore) List(_ context.Context, form types.FormKind) ([]*types.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Submission, 0, len(s.ordered))
	for _, sub := range s.ordered {
		if form != "" && sub.Form != form {
			continue
		}
		out = append(out, sub)
	}
	return out, nil
}

// DeleteExpired removes every record older than maxAge and reindexes the rest.
func (s *SubmissionStore) DeleteExpired(_ context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.ordered[:0]
	removed := 0
	for _, sub := range s.ordered {
		if sub.Date.Before(cutoff) {
			delete(s.byID, sub.ID)
			removed++
			continue
		}
		kept = append(kept, sub)
	}
	if removed == 0 {
		return 0, nil
	}

	s.ordered = kept
	for i, sub := range s.ordered {
		s.byID[sub.ID] = i
	}
	return removed, nil
}

// InsertAt exists for tests that need to backdate a record past the retention
// window. It behaves like Insert but with an explicit creation time.
func (s *SubmissionStore) InsertAt(ctx context.Context, sub *types.Submission, at time.Time) (string, error) {
	id, err := s.Insert(ctx, sub)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.byID[id]
	backdated := *s.ordered[idx]
	backdated.Date = at
	s.ordered[idx] = &backdated
	return id, nil
}
