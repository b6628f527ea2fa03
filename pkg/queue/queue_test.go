package queue

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeblew999/fontdue/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	q, err := NewQueue(d.DB, d.SqlConn(), "refresh-test")
	require.NoError(t, err)
	return q
}

func TestQueueLifecycle(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)

	job, err := q.Enqueue(ctx, "bunny", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, DefaultMaxAttempts, job.MaxAttempts)

	st, err := q.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, st.Status)
	assert.Equal(t, "bunny", st.Source)

	received, msg, err := q.Receive(ctx)
	require.NoError(t, err)
	require.NotNil(t, received)
	assert.Equal(t, job.ID, received.ID)

	t.Run("Retry", func(t *testing.T) {
		received.Attempts++
		require.NoError(t, q.Retry(ctx, *received, msg, 0, errors.New("status 503")))

		st, err := q.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusRetry, st.Status)
		assert.Equal(t, 1, st.Attempts)
		assert.Equal(t, "status 503", st.Error.String)

		again, msg2, err := q.Receive(ctx)
		require.NoError(t, err)
		require.NotNil(t, again)
		assert.Equal(t, 1, again.Attempts)
		assert.Equal(t, "status 503", again.Error)
		msg = msg2
	})

	t.Run("Done", func(t *testing.T) {
		require.NoError(t, q.MarkDone(ctx, job.ID, 2, 1500))
		require.NoError(t, q.Delete(ctx, msg))

		st, err := q.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusDone, st.Status)
		assert.Equal(t, 1500, st.FontCount)
		assert.True(t, st.FinishedAt.Valid)
		assert.False(t, st.Error.Valid)

		next, _, err := q.Receive(ctx)
		require.NoError(t, err)
		assert.Nil(t, next)
	})

	t.Run("ListAndStats", func(t *testing.T) {
		failed, err := q.Enqueue(ctx, "google", 1)
		require.NoError(t, err)
		require.NoError(t, q.MarkFailed(ctx, failed.ID, 1, errors.New("key required")))

		all, err := q.List(ctx, "all", 10)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		onlyFailed, err := q.List(ctx, StatusFailed, 10)
		require.NoError(t, err)
		require.Len(t, onlyFailed, 1)
		assert.Equal(t, failed.ID, onlyFailed[0].ID)

		stats, err := q.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{StatusDone: 1, StatusFailed: 1}, stats)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := q.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEventRecorder(t *testing.T) {
	ctx := context.Background()
	d, err := db.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer d.Close()

	q, err := NewQueue(d.DB, d.SqlConn(), "events-test")
	require.NoError(t, err)
	job, err := q.Enqueue(ctx, "bunny", 0)
	require.NoError(t, err)

	rec, err := NewEventRecorder(d.SqlConn())
	require.NoError(t, err)
	rec.RecordEvent(job.ID, "queued", "")
	rec.RecordEvent(job.ID, "done", "1500 fonts")
	rec.Flush()

	var count int
	require.Eventually(t, func() bool {
		return d.QueryRow("SELECT COUNT(*) FROM refresh_events WHERE job_id = ?", job.ID).Scan(&count) == nil && count == 2
	}, defaultWait, defaultTick)
}

const (
	defaultWait = 2 * time.Second
	defaultTick = 20 * time.Millisecond
)
