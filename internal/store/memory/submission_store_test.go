package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/formgate/formgate-backend/internal/store"
	"github.com/formgate/formgate-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndList(t *testing.T) {
	ctx := context.Background()
	s := New()

	id1, err := s.Insert(ctx, &types.Submission{Form: types.FormContact, Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	id2, err := s.Insert(ctx, &types.Submission{Form: types.FormContact, Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)

	subs, err := s.List(ctx, types.FormContact)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	// Insertion order preserved, pending status and timestamp assigned
	assert.Equal(t, id1, subs[0].ID)
	assert.Equal(t, id2, subs[1].ID)
	assert.Equal(t, types.StatusPending, subs[0].Status)
	assert.False(t, subs[0].Date.IsZero())
}

func TestListFiltersByForm(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Insert(ctx, &types.Submission{Form: types.FormContact, Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, &types.Submission{Form: types.FormSignup, Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	contacts, err := s.List(ctx, types.FormContact)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()

	for i := 0; i < 5; i++ {
		_, err := s.Insert(ctx, &types.Submission{Form: types.FormContact, Email: "x@example.com"})
		require.NoError(t, err)
	}

	first, err := s.List(ctx, types.FormContact)
	require.NoError(t, err)
	second, err := s.List(ctx, types.FormContact)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("pending to completed", func(t *testing.T) {
		s := New()
		id, err := s.Insert(ctx, &types.Submission{Form: types.FormContact, Email: "x@example.com"})
		require.NoError(t, err)

		require.NoError(t, s.UpdateStatus(ctx, id, types.StatusCompleted, ""))

		subs, err := s.List(ctx, types.FormContact)
		require.NoError(t, err)
		assert.Equal(t, types.StatusCompleted, subs[0].Status)
		assert.Empty(t, subs[0].Error)
	})

	t.Run("pending to failed records detail", func(t *testing.T) {
		s := New()
		id, err := s.Insert(ctx, &types.Submission{Form: types.FormContact, Email: "x@example.com"})
		require.NoError(t, err)

		require.NoError(t, s.UpdateStatus(ctx, id, types.StatusFailed, "smtp unreachable"))

		subs, err := s.List(ctx, types.FormContact)
		require.NoError(t, err)
		assert.Equal(t, types.StatusFailed, subs[0].Status)
		assert.Equal(t, "smtp unreachable", subs[0].Error)
	})

	t.Run("terminal status is immutable", func(t *testing.T) {
		s := New()
		id, err := s.Insert(ctx, &types.Submission{Form: types.FormContact, Email: "x@example.com"})
		require.NoError(t, err)

		require.NoError(t, s.UpdateStatus(ctx, id, types.StatusFailed, "boom"))
		require.NoError(t, s.UpdateStatus(ctx, id, types.StatusCompleted, ""))

		subs, err := s.List(ctx, types.FormContact)
		require.NoError(t, err)
		assert.Equal(t, types.StatusFailed, subs[0].Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		s := New()
		err := s.UpdateStatus(ctx, "missing", types.StatusCompleted, "")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestDeleteExpired(t *testing.T) {
	ctx := context.Background()
	s := New()

	oldID, err := s.InsertAt(ctx, &types.Submission{Form: types.FormContact, Email: "old@example.com"},
		time.Now().UTC().Add(-25*time.Hour))
	require.NoError(t, err)

	freshID, err := s.InsertAt(ctx, &types.Submission{Form: types.FormContact, Email: "new@example.com"},
		time.Now().UTC().Add(-1*time.Hour))
	require.NoError(t, err)

	removed, err := s.DeleteExpired(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	subs, err := s.List(ctx, types.FormContact)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, freshID, subs[0].ID)

	// Swept id is gone from the index as well
	assert.ErrorIs(t, s.UpdateStatus(ctx, oldID, types.StatusCompleted, ""), store.ErrNotFound)

	// Surviving record still addressable after reindex
	assert.NoError(t, s.UpdateStatus(ctx, freshID, types.StatusCompleted, ""))
}

func TestConcurrentInsertAndSweep(t *testing.T) {
	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Insert(ctx, &types.Submission{Form: types.FormContact, Email: "x@example.com"})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.DeleteExpired(ctx, 24*time.Hour)
		}()
	}
	wg.Wait()

	subs, err := s.List(ctx, types.FormContact)
	require.NoError(t, err)
	assert.Len(t, subs, 20)
}
