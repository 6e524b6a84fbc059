// Package service implements the optimistic mutation engine. Every mutation
// validates, applies to the local cache synchronously, then queues its
// remote writes on a background worker. Remote failures are logged and
// counted but never roll the local phase back; the next reconciliation pass
// restores convergence.
package service

import (
	"context"
	"errors"
	"sync"

	"openwall/internal/observability"
)

var errQueueFull = errors.New("remote write queue full")

type remoteJob struct {
	collection    string
	operation     string
	correlationID string
	fn            func(context.Context) error
}

// RemoteWriter executes best-effort remote writes on a single background
// worker, preserving enqueue order. Enqueue never blocks the caller: a full
// queue drops the write and counts it as a remote failure.
type RemoteWriter struct {
	jobs chan remoteJob
	wg   sync.WaitGroup

	closeOnce sync.Once
	done      chan struct{}
}

// NewRemoteWriter creates a writer with the given queue depth and starts its
// worker.
func NewRemoteWriter(buffer int) *RemoteWriter {
	if buffer <= 0 {
		buffer = 64
	}
	w := &RemoteWriter{
		jobs: make(chan remoteJob, buffer),
		done: make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *RemoteWriter) run() {
	defer close(w.done)
	for job := range w.jobs {
		w.execute(job)
		w.wg.Done()
	}
}

func (w *RemoteWriter) execute(job remoteJob) {
	// Detached from the caller's context: the mutation has already
	// succeeded locally and its remote write must not be canceled with it.
	ctx := observability.WithCorrelationID(context.Background(), job.correlationID)
	span, ctx := observability.TraceRemoteWrite(ctx, job.collection+"."+job.operation)
	defer span.End()

	if err := job.fn(ctx); err != nil {
		observability.LogRemoteWriteError(ctx, job.collection+"."+job.operation, err)
		observability.RemoteWriteFailures.WithLabelValues(job.collection, job.operation).Inc()
		span.SetError(err)
	}
}

// Enqueue schedules one remote write. The caller's correlation id is carried
// over; everything else about the caller's context is dropped. Enqueue never
// blocks the caller: when the queue is saturated, say because a remote call
// stalled and never resolves, the write is dropped and counted as a failure
// like any other. The next reconciliation pass restores convergence.
func (w *RemoteWriter) Enqueue(ctx context.Context, collection, operation string, fn func(context.Context) error) {
	w.wg.Add(1)
	job := remoteJob{
		collection:    collection,
		operation:     operation,
		correlationID: observability.ExtractCorrelationID(ctx),
		fn:            fn,
	}
	select {
	case w.jobs <- job:
	default:
		w.wg.Done()
		observability.LogRemoteWriteError(ctx, collection+"."+operation, errQueueFull)
		observability.RemoteWriteFailures.WithLabelValues(collection, operation).Inc()
	}
}

// Flush blocks until every enqueued write has been attempted.
func (w *RemoteWriter) Flush() {
	w.wg.Wait()
}

// Close flushes the queue and stops the worker.
func (w *RemoteWriter) Close() {
	w.closeOnce.Do(func() {
		w.wg.Wait()
		close(w.jobs)
		<-w.done
	})
}
