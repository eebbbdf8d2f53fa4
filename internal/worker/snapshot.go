package worker

import (
	"fmt"
	"time"

	"wealthwatcher/internal/core"
	"wealthwatcher/internal/export"
	"wealthwatcher/internal/report"
)

// Build runs the dashboard and every report kind over rec with one clock
// reading.
func Build(userID string, rec core.UserRecord, now time.Time) (export.Snapshot, error) {
	snap := export.Snapshot{
		UserID:      userID,
		GeneratedAt: now,
		Dashboard:   report.DashboardMetrics(rec, now),
	}
	for _, k := range report.Kinds() {
		r, err := report.Generate(k, rec, now)
		if err != nil {
			return export.Snapshot{}, fmt.Errorf("generate %s: %w", k, err)
		}
		snap.Reports = append(snap.Reports, r)
	}
	return snap, nil
}
