package refresh

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/joeblew999/fontdue/pkg/catalog"
	"github.com/joeblew999/fontdue/pkg/db"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/joeblew999/fontdue/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultWait = 5 * time.Second
	defaultTick = 20 * time.Millisecond
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	keys  []string
	errs  []error // returned in order, then success
}

func (f *fakeFetcher) Refresh(_ context.Context, source font.Source, apiKey string) (*catalog.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.keys = append(f.keys, apiKey)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	c := catalog.Empty(source)
	c.Fonts = []font.CatalogFont{{ID: "a", Name: "A", Family: "A"}, {ID: "b", Name: "B", Family: "B"}}
	return c, nil
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

func testConfig() Config {
	return Config{
		MaxRetries:   2,
		RetryBackoff: 10 * time.Millisecond,
		MaxBackoff:   50 * time.Millisecond,
		RateLimit:    60000,
	}
}

func newTestEngine(t *testing.T, fetcher Fetcher) (*Engine, *queue.Queue) {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "refresh.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	q, err := queue.NewQueue(d.DB, d.SqlConn(), "refresh-test")
	require.NoError(t, err)

	e := NewEngine(q, fetcher, func(context.Context) string { return "key-123" }, testConfig())
	t.Cleanup(e.Stop)
	return e, q
}

func waitForStatus(t *testing.T, q *queue.Queue, id, status string) *queue.JobStatus {
	t.Helper()
	var st *queue.JobStatus
	require.Eventually(t, func() bool {
		var err error
		st, err = q.Get(context.Background(), id)
		return err == nil && st.Status == status
	}, defaultWait, defaultTick)
	return st
}

func TestEngineRefreshes(t *testing.T) {
	fetcher := &fakeFetcher{}
	e, q := newTestEngine(t, fetcher)

	job, err := e.Enqueue(context.Background(), font.SourceBunny)
	require.NoError(t, err)
	assert.Equal(t, 2, job.MaxAttempts)

	e.Start(1)
	st := waitForStatus(t, q, job.ID, queue.StatusDone)
	assert.Equal(t, 1, st.Attempts)
	assert.Equal(t, 2, st.FontCount)
	assert.True(t, st.FinishedAt.Valid)
	assert.Equal(t, []string{"key-123"}, fetcher.Keys())
}

func TestEngineRetriesTransientErrors(t *testing.T) {
	fetcher := &fakeFetcher{errs: []error{catalog.ErrFetchFailed}}
	e, q := newTestEngine(t, fetcher)

	job, err := e.Enqueue(context.Background(), font.SourceGoogle)
	require.NoError(t, err)

	e.Start(1)
	st := waitForStatus(t, q, job.ID, queue.StatusDone)
	assert.Equal(t, 2, st.Attempts)
	assert.Equal(t, 2, fetcher.Calls())
}

func TestEngineFailsPermanentErrors(t *testing.T) {
	fetcher := &fakeFetcher{errs: []error{catalog.ErrCredentialMissing, catalog.ErrCredentialMissing}}
	e, q := newTestEngine(t, fetcher)

	job, err := e.Enqueue(context.Background(), font.SourceGoogle)
	require.NoError(t, err)

	e.Start(1)
	st := waitForStatus(t, q, job.ID, queue.StatusFailed)
	assert.Equal(t, 1, st.Attempts)
	assert.Contains(t, st.Error.String, "api key required")
	assert.Equal(t, 1, fetcher.Calls())
}

func TestEngineGivesUpAfterMaxAttempts(t *testing.T) {
	fetcher := &fakeFetcher{errs: []error{catalog.ErrFetchFailed, catalog.ErrFetchFailed, catalog.ErrFetchFailed}}
	e, q := newTestEngine(t, fetcher)

	job, err := e.Enqueue(context.Background(), font.SourceBunny)
	require.NoError(t, err)

	e.Start(1)
	st := waitForStatus(t, q, job.ID, queue.StatusFailed)
	assert.Equal(t, 2, st.Attempts)
	assert.Equal(t, 2, fetcher.Calls())
}

func TestEngineRejectsUnsupportedSource(t *testing.T) {
	e, _ := newTestEngine(t, &fakeFetcher{})
	_, err := e.Enqueue(context.Background(), font.SourceFontshare)
	assert.ErrorIs(t, err, catalog.ErrUnsupported)
}

func TestEngineStartStopIdempotent(t *testing.T) {
	e, _ := newTestEngine(t, &fakeFetcher{})
	e.Start(2)
	e.Start(2)
	e.Stop()
	e.Stop()
}

func TestCalculateBackoff(t *testing.T) {
	e := &Engine{config: Config{RetryBackoff: time.Second, MaxBackoff: 5 * time.Second}}
	assert.Equal(t, time.Second, e.calculateBackoff(1))
	assert.Equal(t, 2*time.Second, e.calculateBackoff(2))
	assert.Equal(t, 4*time.Second, e.calculateBackoff(3))
	assert.Equal(t, 5*time.Second, e.calculateBackoff(4))
}
