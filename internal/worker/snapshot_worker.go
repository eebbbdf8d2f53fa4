package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"wealthwatcher/internal/amqp"
	"wealthwatcher/internal/export"
	"wealthwatcher/internal/store"
)

// SnapshotWorker recomputes a user's reports after a change event and hands
// them to the exporter.
type SnapshotWorker struct {
	store    store.RecordFetcher
	exporter export.Exporter
	now      func() time.Time

	processed atomic.Int64
	skipped   atomic.Int64
	failed    atomic.Int64
}

// Stats counts handled events since start.
type Stats struct {
	Processed int64
	Skipped   int64
	Failed    int64
}

func NewSnapshotWorker(s store.RecordFetcher, exporter export.Exporter) *SnapshotWorker {
	if exporter == nil {
		exporter = export.Noop{}
	}
	return &SnapshotWorker{
		store:    s,
		exporter: exporter,
		now:      time.Now,
	}
}

// HandleRecordChanged processes a single change event from AMQP. Events for
// records that no longer exist are acknowledged without exporting.
func (w *SnapshotWorker) HandleRecordChanged(ctx context.Context, msg *amqp.RecordChangedMessage) error {
	slog.InfoContext(ctx, "Processing record changed message",
		"component", "worker",
		"user_id", msg.UserID,
		"collection", msg.Collection)

	rec, err := w.store.Fetch(ctx, msg.UserID)
	if errors.Is(err, store.ErrNotFound) {
		w.skipped.Add(1)
		slog.WarnContext(ctx, "Record gone, skipping snapshot",
			"component", "worker", "user_id", msg.UserID)
		return nil
	}
	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("get record from store: %w", err)
	}

	snap, err := Build(msg.UserID, rec, w.now())
	if err != nil {
		w.failed.Add(1)
		return err
	}

	if err := w.exporter.Export(ctx, snap); err != nil {
		w.failed.Add(1)
		slog.ErrorContext(ctx, "Failed to export snapshot",
			"component", "worker",
			"user_id", msg.UserID,
			"error", err,
			"timestamp", msg.Timestamp)
		return fmt.Errorf("export snapshot: %w", err)
	}

	w.processed.Add(1)
	slog.InfoContext(ctx, "Successfully exported snapshot",
		"component", "worker",
		"user_id", msg.UserID,
		"reports", len(snap.Reports))
	return nil
}

func (w *SnapshotWorker) Stats() Stats {
	return Stats{
		Processed: w.processed.Load(),
		Skipped:   w.skipped.Load(),
		Failed:    w.failed.Load(),
	}
}
