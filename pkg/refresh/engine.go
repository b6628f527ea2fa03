// Package refresh provides the catalog refresh engine with retry support.
package refresh

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/joeblew999/fontdue/pkg/catalog"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/joeblew999/fontdue/pkg/queue"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/rescue"
	"github.com/zeromicro/go-zero/core/syncx"
	"github.com/zeromicro/go-zero/core/threading"
	"golang.org/x/time/rate"
	"maragu.dev/goqite"
)

// Config holds refresh engine configuration.
type Config struct {
	MaxRetries   int
	RetryBackoff time.Duration
	MaxBackoff   time.Duration
	RateLimit    int // refreshes per minute
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		RetryBackoff: time.Minute,
		MaxBackoff:   time.Hour,
		RateLimit:    6,
	}
}

// Fetcher refetches the full catalog of a source.
type Fetcher interface {
	Refresh(ctx context.Context, source font.Source, apiKey string) (*catalog.Catalog, error)
}

// KeyFunc returns the Google Fonts API key at the time a job runs.
type KeyFunc func(ctx context.Context) string

// Engine drains refresh jobs with retry logic.
type Engine struct {
	config      Config
	queue       *queue.Queue
	fetcher     Fetcher
	keys        KeyFunc
	rateLimiter *rate.Limiter
	running     *syncx.AtomicBool

	ctx    context.Context
	cancel context.CancelFunc
	group  *threading.RoutineGroup
}

// NewEngine creates a new refresh engine.
func NewEngine(q *queue.Queue, fetcher Fetcher, keys KeyFunc, cfg Config) *Engine {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultConfig().RateLimit
	}
	if keys == nil {
		keys = func(context.Context) string { return "" }
	}
	// Rate limiter: N refreshes per minute
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimit)), 1)

	ctx, cancel := context.WithCancel(context.Background())

	return &Engine{
		config:      cfg,
		queue:       q,
		fetcher:     fetcher,
		keys:        keys,
		rateLimiter: limiter,
		running:     syncx.NewAtomicBool(),
		ctx:         ctx,
		cancel:      cancel,
		group:       threading.NewRoutineGroup(),
	}
}

// Enqueue schedules a refresh of source.
func (e *Engine) Enqueue(ctx context.Context, source font.Source) (queue.RefreshJob, error) {
	if !catalog.SupportsFull(source) {
		return queue.RefreshJob{}, fmt.Errorf("%w: %s", catalog.ErrUnsupported, source)
	}
	job, err := e.queue.Enqueue(ctx, string(source), e.config.MaxRetries)
	if err != nil {
		return queue.RefreshJob{}, err
	}
	e.recordEvent(job.ID, "queued", "")
	return job, nil
}

// Start starts the refresh engine with the specified number of workers.
func (e *Engine) Start(workers int) {
	if !e.running.CompareAndSwap(false, true) {
		return // Already running
	}

	logx.Infow("Refresh engine started", logx.Field("workers", workers))
	for i := 0; i < workers; i++ {
		e.group.RunSafe(e.worker)
	}
}

// Stop gracefully stops the refresh engine.
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return // Already stopped
	}

	logx.Info("Refresh engine stopping, waiting for workers")
	e.cancel()
	e.group.Wait()
	if e.queue.Events != nil {
		e.queue.Events.Flush()
	}
	logx.Info("Refresh engine stopped")
}

func (e *Engine) worker() {
	backoff := 100 * time.Millisecond
	const maxBackoff = 5 * time.Second

	for {
		select {
		case <-e.ctx.Done():
			return
		default:
			job, msg, err := e.queue.Receive(e.ctx)
			if err != nil && msg != nil {
				// Undecodable body, drop it
				logx.Errorf("Dropping malformed refresh job: %v", err)
				_ = e.queue.Delete(e.ctx, msg)
				continue
			}
			if err != nil || job == nil {
				// No work available, back off
				e.sleep(backoff)
				backoff = min(backoff*2, maxBackoff)

				// Periodically update queue depth gauge
				e.updateQueueDepth()
				continue
			}

			backoff = 100 * time.Millisecond // Reset on work found
			e.processJob(job, msg)
		}
	}
}

func (e *Engine) sleep(d time.Duration) {
	select {
	case <-e.ctx.Done():
	case <-time.After(d):
	}
}

func (e *Engine) processJob(job *queue.RefreshJob, msg *goqite.Message) {
	// Per-job fields ride along on every logx call using ctx
	ctx := logx.ContextWithFields(e.ctx,
		logx.Field("job_id", job.ID),
		logx.Field("source", job.Source),
		logx.Field("attempt", job.Attempts+1),
	)

	// Panic recovery: mark job failed and record metric if processJob panics
	defer rescue.RecoverCtx(ctx, func() {
		refreshesFailed.Inc(job.Source, "panic")
		_ = e.queue.MarkFailed(ctx, job.ID, job.Attempts+1, fmt.Errorf("panic during refresh"))
		_ = e.queue.Delete(ctx, msg)
	})

	logx.WithContext(ctx).Info("Processing refresh job")

	if err := e.rateLimiter.Wait(ctx); err != nil {
		// Shutting down; the message becomes visible again after its timeout
		return
	}

	start := time.Now()
	c, err := e.Run(ctx, font.Source(job.Source))
	if err != nil {
		e.handleError(ctx, job, msg, err)
		return
	}

	job.Attempts++
	if err := e.queue.MarkDone(ctx, job.ID, job.Attempts, len(c.Fonts)); err != nil {
		logx.WithContext(ctx).Errorf("Failed to mark refresh job done: %v", err)
	}
	_ = e.queue.Delete(ctx, msg)
	refreshesDone.Inc(job.Source)
	refreshDuration.ObserveFloat(time.Since(start).Seconds(), job.Source)
	e.recordEvent(job.ID, "done", fmt.Sprintf("%d fonts", len(c.Fonts)))

	logx.WithContext(ctx).Infow("Catalog refreshed", logx.Field("fonts", len(c.Fonts)))
}

// Run refetches source immediately without queueing.
func (e *Engine) Run(ctx context.Context, source font.Source) (*catalog.Catalog, error) {
	return e.fetcher.Refresh(ctx, source, e.keys(ctx))
}

func (e *Engine) handleError(ctx context.Context, job *queue.RefreshJob, msg *goqite.Message, err error) {
	job.Attempts++
	job.Error = err.Error()

	// Classify failure reason for metrics
	reason := "transient"
	if catalog.IsPermanent(err) {
		reason = "permanent"
	}

	if catalog.IsPermanent(err) || job.Attempts >= job.MaxAttempts {
		_ = e.queue.MarkFailed(ctx, job.ID, job.Attempts, err)
		_ = e.queue.Delete(ctx, msg)
		refreshesFailed.Inc(job.Source, reason)
		e.recordEvent(job.ID, "failed", err.Error())
		logx.WithContext(ctx).Errorf("Catalog refresh failed permanently: %v", err)
		return
	}

	// Schedule retry with backoff
	backoff := e.calculateBackoff(job.Attempts)
	if rerr := e.queue.Retry(ctx, *job, msg, backoff, err); rerr != nil {
		logx.WithContext(ctx).Errorf("Failed to schedule refresh retry: %v", rerr)
		return
	}
	refreshesRetried.Inc(job.Source)
	e.recordEvent(job.ID, "retry", fmt.Sprintf("attempt %d, backoff %s: %v", job.Attempts, backoff, err))

	logx.WithContext(ctx).Infof("Catalog refresh retrying in %s: %v", backoff, err)
}

func (e *Engine) calculateBackoff(attempts int) time.Duration {
	backoff := e.config.RetryBackoff * time.Duration(math.Pow(2, float64(attempts-1)))
	if backoff > e.config.MaxBackoff {
		return e.config.MaxBackoff
	}
	return backoff
}

// recordEvent writes an event to the queue's BulkInserter if available.
func (e *Engine) recordEvent(jobID, eventType, details string) {
	if e.queue.Events != nil {
		e.queue.Events.RecordEvent(jobID, eventType, details)
	}
}

// updateQueueDepth refreshes the queue depth gauge from current stats.
func (e *Engine) updateQueueDepth() {
	stats, err := e.queue.Stats(e.ctx)
	if err != nil {
		return
	}
	for status, count := range stats {
		queueDepth.Set(float64(count), status)
	}
}
