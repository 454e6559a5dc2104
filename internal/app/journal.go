package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/skobkin/fynetip/internal/bus"
	"github.com/skobkin/fynetip/internal/events"
	"github.com/skobkin/fynetip/internal/persistence"
)

// JournalOptions configures OpenJournal.
type JournalOptions struct {
	// MaxEvents prunes older events on open; zero keeps everything.
	MaxEvents int
	Logger    *slog.Logger
}

// Journal records tooltip visibility changes in SQLite.
type Journal struct {
	db     *sql.DB
	repo   *persistence.VisibilityRepo
	writer *persistence.WriterQueue
	logger *slog.Logger

	mu           sync.Mutex
	stopFollower func()
	closeOnce    sync.Once
}

func OpenJournal(ctx context.Context, path string, opts JournalOptions) (*Journal, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.With("component", "journal")
	}

	db, err := persistence.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	repo := persistence.NewVisibilityRepo(db)
	if opts.MaxEvents > 0 {
		removed, err := repo.Prune(ctx, opts.MaxEvents)
		if err != nil {
			_ = db.Close()

			return nil, err
		}
		if removed > 0 {
			logger.Info("pruned visibility journal", "removed", removed, "kept", opts.MaxEvents)
		}
	}

	writer := persistence.NewWriterQueue(logger, 0)
	writer.Start(ctx)

	return &Journal{
		db:     db,
		repo:   repo,
		writer: writer,
		logger: logger,
	}, nil
}

// Record queues ev for writing. It reports false when the event was dropped.
func (j *Journal) Record(ev events.TooltipVisibility) bool {
	return j.writer.Enqueue("record visibility", func(ctx context.Context) error {
		return j.repo.Insert(ctx, ev)
	})
}

// Recent returns up to limit recorded events, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]events.TooltipVisibility, error) {
	return j.repo.ListRecent(ctx, limit)
}

func (j *Journal) Clear(ctx context.Context) error {
	return persistence.ClearJournal(ctx, j.db)
}

// Follow records every visibility change published on messageBus until Close.
// Only one bus is followed at a time.
func (j *Journal) Follow(messageBus bus.MessageBus) {
	if messageBus == nil {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stopFollower != nil {
		j.stopFollower()
	}

	sub := messageBus.Subscribe(events.TopicTooltipVisibility)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case raw, ok := <-sub:
				if !ok {
					return
				}
				ev, ok := raw.(events.TooltipVisibility)
				if !ok {
					j.logger.Debug("ignoring unexpected visibility payload", "payload_type", fmt.Sprintf("%T", raw))

					continue
				}
				if !j.Record(ev) {
					j.logger.Debug("visibility event not recorded", "tooltip_id", ev.TooltipID)
				}
			}
		}
	}()

	var stopOnce sync.Once
	j.stopFollower = func() {
		stopOnce.Do(func() {
			close(done)
			messageBus.Unsubscribe(sub)
		})
	}
}

// Close stops following the bus, flushes queued writes and closes the
// database.
func (j *Journal) Close() error {
	var err error
	j.closeOnce.Do(func() {
		j.mu.Lock()
		if j.stopFollower != nil {
			j.stopFollower()
			j.stopFollower = nil
		}
		j.mu.Unlock()

		j.writer.Close()
		if closeErr := j.db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close journal db: %w", closeErr))
		}
	})

	return err
}

// OpenHistory opens the journal next to the config file for reading.
func OpenHistory(ctx context.Context, configPath string) (*Journal, error) {
	paths, err := resolveRuntimePaths(configPath)
	if err != nil {
		return nil, err
	}

	return OpenJournal(ctx, paths.JournalFile, JournalOptions{})
}
