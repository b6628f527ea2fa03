// Package queue provides catalog refresh job operations using goqite.
package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"maragu.dev/goqite"
)

// Job statuses tracked in the refresh_jobs table.
const (
	StatusPending = "pending"
	StatusRetry   = "retry"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// DefaultMaxAttempts bounds retries of a refresh job.
const DefaultMaxAttempts = 3

// ErrNotFound is returned for unknown job ids.
var ErrNotFound = errors.New("refresh job not found")

// RefreshJob asks for the full catalog of one source to be fetched again.
type RefreshJob struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Attempts    int       `json:"attempts"`
	MaxAttempts int       `json:"max_attempts"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobStatus is the tracked state of a refresh job.
type JobStatus struct {
	ID          string         `db:"id"`
	Source      string         `db:"source"`
	Status      string         `db:"status"`
	Attempts    int            `db:"attempts"`
	MaxAttempts int            `db:"max_attempts"`
	FontCount   int            `db:"font_count"`
	Error       sql.NullString `db:"error"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	FinishedAt  sql.NullTime   `db:"finished_at"`
}

const jobColumns = "id, source, status, attempts, max_attempts, font_count, error, created_at, updated_at, finished_at"

// Queue manages refresh jobs using goqite.
type Queue struct {
	conn  sqlx.SqlConn
	queue *goqite.Queue
	name  string

	// Events records job history when set.
	Events *EventRecorder
}

// NewQueue creates a new refresh job queue.
func NewQueue(db *sql.DB, conn sqlx.SqlConn, name string) (*Queue, error) {
	if err := goqite.Setup(context.Background(), db); err != nil {
		return nil, fmt.Errorf("setup goqite: %w", err)
	}

	q := goqite.New(goqite.NewOpts{
		DB:   db,
		Name: name,
	})

	return &Queue{
		conn:  conn,
		queue: q,
		name:  name,
	}, nil
}

// Enqueue adds a refresh job for source to the queue.
func (q *Queue) Enqueue(ctx context.Context, source string, maxAttempts int) (RefreshJob, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	job := RefreshJob{
		ID:          uuid.New().String(),
		Source:      source,
		MaxAttempts: maxAttempts,
		CreatedAt:   time.Now(),
	}

	if err := q.send(ctx, job, 0); err != nil {
		return RefreshJob{}, err
	}

	// Also store in refresh_jobs table for tracking
	if _, err := q.conn.ExecCtx(ctx, `
		INSERT INTO refresh_jobs (id, source, status, attempts, max_attempts, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, job.ID, job.Source, StatusPending, job.MaxAttempts); err != nil {
		return RefreshJob{}, fmt.Errorf("store refresh job: %w", err)
	}

	return job, nil
}

func (q *Queue) send(ctx context.Context, job RefreshJob, delay time.Duration) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	if err := q.queue.Send(ctx, goqite.Message{
		Body:  body,
		Delay: delay,
	}); err != nil {
		return fmt.Errorf("send to queue: %w", err)
	}
	return nil
}

// Receive gets the next job from the queue. It returns nil when the queue is empty.
func (q *Queue) Receive(ctx context.Context) (*RefreshJob, *goqite.Message, error) {
	msg, err := q.queue.Receive(ctx)
	if err != nil {
		return nil, nil, err
	}
	if msg == nil {
		return nil, nil, nil
	}

	var job RefreshJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		return nil, msg, fmt.Errorf("unmarshal job: %w", err)
	}

	return &job, msg, nil
}

// Extend extends the timeout for a message being processed.
func (q *Queue) Extend(ctx context.Context, msg *goqite.Message, d time.Duration) error {
	return q.queue.Extend(ctx, msg.ID, d)
}

// Delete removes a message from the queue (job completed).
func (q *Queue) Delete(ctx context.Context, msg *goqite.Message) error {
	return q.queue.Delete(ctx, msg.ID)
}

// Retry replaces msg with a copy of job delivered after delay.
func (q *Queue) Retry(ctx context.Context, job RefreshJob, msg *goqite.Message, delay time.Duration, cause error) error {
	job.Error = cause.Error()
	if err := q.send(ctx, job, delay); err != nil {
		return err
	}
	if msg != nil {
		if err := q.Delete(ctx, msg); err != nil {
			return err
		}
	}
	return q.UpdateStatus(ctx, job.ID, StatusRetry, job.Attempts, cause)
}

// UpdateStatus records the status and attempt count of a job.
func (q *Queue) UpdateStatus(ctx context.Context, id, status string, attempts int, cause error) error {
	var errStr sql.NullString
	if cause != nil {
		errStr = sql.NullString{String: cause.Error(), Valid: true}
	}

	_, err := q.conn.ExecCtx(ctx, `
		UPDATE refresh_jobs
		SET status = ?, attempts = ?, error = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, status, attempts, errStr, id)
	return err
}

// MarkDone marks a job as finished with the number of fonts fetched.
func (q *Queue) MarkDone(ctx context.Context, id string, attempts, fontCount int) error {
	_, err := q.conn.ExecCtx(ctx, `
		UPDATE refresh_jobs
		SET status = ?, attempts = ?, font_count = ?, error = NULL,
		    updated_at = CURRENT_TIMESTAMP, finished_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, StatusDone, attempts, fontCount, id)
	return err
}

// MarkFailed marks a job as permanently failed.
func (q *Queue) MarkFailed(ctx context.Context, id string, attempts int, cause error) error {
	_, err := q.conn.ExecCtx(ctx, `
		UPDATE refresh_jobs
		SET status = ?, attempts = ?, error = ?,
		    updated_at = CURRENT_TIMESTAMP, finished_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, StatusFailed, attempts, cause.Error(), id)
	return err
}

// Get returns the tracked status of a job.
func (q *Queue) Get(ctx context.Context, id string) (*JobStatus, error) {
	var st JobStatus
	err := q.conn.QueryRowCtx(ctx, &st, "SELECT "+jobColumns+" FROM refresh_jobs WHERE id = ?", id)
	if errors.Is(err, sqlx.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// List returns jobs with an optional status filter, newest first.
func (q *Queue) List(ctx context.Context, status string, limit int) ([]JobStatus, error) {
	query := "SELECT " + jobColumns + " FROM refresh_jobs"
	args := []any{}

	if status != "" && status != "all" {
		query += " WHERE status = ?"
		args = append(args, status)
	}

	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	var jobs []JobStatus
	if err := q.conn.QueryRowsCtx(ctx, &jobs, query, args...); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Stats returns job counts by status.
func (q *Queue) Stats(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := q.conn.QueryRowsCtx(ctx, &rows,
		"SELECT status, COUNT(*) AS count FROM refresh_jobs GROUP BY status"); err != nil {
		return nil, err
	}

	stats := make(map[string]int, len(rows))
	for _, r := range rows {
		stats[r.Status] = r.Count
	}
	return stats, nil
}
