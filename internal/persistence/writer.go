package persistence

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultWriterCapacity = 256
	maxWriteAttempts      = 3
)

type writeCmd struct {
	name string
	fn   func(context.Context) error
}

// WriterQueue serializes journal writes on one goroutine so bus listeners
// never block on SQLite.
type WriterQueue struct {
	logger *slog.Logger
	queue  chan writeCmd

	mu      sync.Mutex
	closed  bool
	started bool
	done    chan struct{}
}

func NewWriterQueue(logger *slog.Logger, capacity int) *WriterQueue {
	if logger == nil {
		logger = slog.With("component", "persistence.writer")
	}
	if capacity <= 0 {
		capacity = defaultWriterCapacity
	}

	return &WriterQueue{
		logger: logger,
		queue:  make(chan writeCmd, capacity),
		done:   make(chan struct{}),
	}
}

// Enqueue schedules fn. It reports false when the queue is closed or full.
func (w *WriterQueue) Enqueue(name string, fn func(context.Context) error) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}

	select {
	case w.queue <- writeCmd{name: name, fn: fn}:
		return true
	default:
		w.logger.Warn("dropping db write: queue is full", "cmd", name)

		return false
	}
}

// Start runs queued writes until Close. Writes outlive ctx cancellation so
// the queue can drain on shutdown; ctx only cuts retry backoff short.
func (w *WriterQueue) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started || w.closed {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	writeCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(w.done)
		for cmd := range w.queue {
			w.runWithRetry(ctx, writeCtx, cmd)
		}
	}()
}

// Close stops accepting writes and waits for queued ones to finish.
func (w *WriterQueue) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	started := w.started
	close(w.queue)
	w.mu.Unlock()

	if started {
		<-w.done
	}
}

func (w *WriterQueue) runWithRetry(ctx, writeCtx context.Context, cmd writeCmd) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		err := cmd.fn(writeCtx)
		if err == nil {
			return
		}
		w.logger.Error("db write failed", "cmd", cmd.name, "attempt", attempt, "error", err)
		if attempt == maxWriteAttempts {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * 300 * time.Millisecond):
		}
	}
}
