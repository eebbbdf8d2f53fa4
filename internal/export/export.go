// Package export turns generated reports into display tables and ships them
// to an outbound destination.
package export

import (
	"context"
	"log/slog"
	"time"

	"wealthwatcher/internal/report"
)

// Snapshot is everything derived for one user at one instant.
type Snapshot struct {
	UserID      string
	GeneratedAt time.Time
	Dashboard   report.Dashboard
	Reports     []report.Report
}

// Tables renders the dashboard followed by every report.
func (s Snapshot) Tables() []Table {
	out := make([]Table, 0, len(s.Reports)+1)
	out = append(out, DashboardTable(s.Dashboard))
	for _, r := range s.Reports {
		out = append(out, BuildTable(r))
	}
	return out
}

// Ports for outbound adapters.
type (
	Exporter interface {
		Export(ctx context.Context, snap Snapshot) error
	}
)

// Noop discards snapshots. It is used when no destination is configured.
type Noop struct{}

var _ Exporter = Noop{}

func (Noop) Export(ctx context.Context, snap Snapshot) error {
	slog.DebugContext(ctx, "Export skipped, no destination configured",
		"component", "export", "user_id", snap.UserID, "reports", len(snap.Reports))
	return nil
}
