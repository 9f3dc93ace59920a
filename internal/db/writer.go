package db

import (
	"context"
	"database/sql"
)

// TxFn is one unit of write work, executed inside a transaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

type job struct {
	ctx context.Context
	fn  TxFn
	ch  chan error
}

const writerQueueSize = 256

// Writer serializes all database writes through a single goroutine, one
// transaction per job.  SQLite allows one writer at a time; funneling
// writes here avoids SQLITE_BUSY churn under concurrent access attempts.
type Writer struct {
	conn *sql.DB
	jobs chan job
	done chan struct{}
}

func NewWriter(conn *sql.DB) *Writer {
	w := &Writer{
		conn: conn,
		jobs: make(chan job, writerQueueSize),
		done: make(chan struct{}),
	}
	go w.loop()
	return w
}

// Close drains the queue and stops the writer goroutine.
func (w *Writer) Close() {
	close(w.jobs)
	<-w.done
}

// Do runs fn in its own transaction on the writer goroutine and waits for
// the result.  If the caller's context expires while the job is queued or
// executing, Do returns early — the job itself still runs to completion
// and commits; its result lands in the buffered channel and is discarded.
func (w *Writer) Do(ctx context.Context, fn TxFn) error {
	ch := make(chan error, 1)
	j := job{ctx: ctx, fn: fn, ch: ch}

	select {
	case w.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) loop() {
	defer close(w.done)

	for j := range w.jobs {
		// Detach from the submitter: an abandoned job must still commit.
		jobCtx := context.WithoutCancel(j.ctx)

		tx, err := w.conn.BeginTx(jobCtx, nil)
		if err != nil {
			j.ch <- err
			continue
		}

		if err := j.fn(jobCtx, tx); err != nil {
			_ = tx.Rollback()
			j.ch <- err
			continue
		}

		j.ch <- tx.Commit()
	}
}
