package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wealthwatcher/internal/cache"
	"wealthwatcher/internal/report"
	"wealthwatcher/internal/store"
)

const dashboardKey = "dashboard"

// ReportService serves reports and dashboard metrics from fresh snapshots,
// caching results per user, kind and calendar month.
type ReportService struct {
	store     store.RecordFetcher
	reports   *cache.LRUCache[report.Report]
	dashboard *cache.LRUCache[report.Dashboard]
	now       func() time.Time
}

// NewReportService creates the service. Cache sizes are per result type.
func NewReportService(s store.RecordFetcher, cacheSize int, ttl time.Duration) *ReportService {
	return &ReportService{
		store:     s,
		reports:   cache.NewLRUCache[report.Report](cacheSize, ttl),
		dashboard: cache.NewLRUCache[report.Dashboard](cacheSize, ttl),
		now:       time.Now,
	}
}

// Cleaners exposes the caches for periodic sweeping.
func (s *ReportService) Cleaners() []cache.Cleaner {
	return []cache.Cleaner{s.reports, s.dashboard}
}

// Report generates the report of the given kind for userID.
func (s *ReportService) Report(ctx context.Context, userID string, kind report.Kind) (report.Report, error) {
	if _, err := report.ParseKind(string(kind)); err != nil {
		return report.Report{}, err
	}
	now := s.now()
	key := cacheKey(userID, string(kind), now)
	if r, ok := s.reports.Get(key); ok {
		return r, nil
	}

	rec, err := s.store.Fetch(ctx, userID)
	if err != nil {
		return report.Report{}, fmt.Errorf("fetch record: %w", err)
	}
	r, err := report.Generate(kind, rec, now)
	if err != nil {
		return report.Report{}, err
	}
	s.reports.Set(key, r)
	slog.DebugContext(ctx, "Generated report", "component", "reports", "user_id", userID, "kind", kind, "rows", r.Len())
	return r, nil
}

// Dashboard returns the headline metrics for userID.
func (s *ReportService) Dashboard(ctx context.Context, userID string) (report.Dashboard, error) {
	now := s.now()
	key := cacheKey(userID, dashboardKey, now)
	if d, ok := s.dashboard.Get(key); ok {
		return d, nil
	}

	rec, err := s.store.Fetch(ctx, userID)
	if err != nil {
		return report.Dashboard{}, fmt.Errorf("fetch record: %w", err)
	}
	d := report.DashboardMetrics(rec, now)
	s.dashboard.Set(key, d)
	return d, nil
}

// InvalidateUser drops every cached result for userID.
func (s *ReportService) InvalidateUser(userID string) {
	prefix := userPrefix(userID)
	n := s.reports.DeletePrefix(prefix) + s.dashboard.DeletePrefix(prefix)
	if n > 0 {
		slog.Debug("Invalidated cached reports", "component", "reports", "user_id", userID, "entries", n)
	}
}

func userPrefix(userID string) string {
	return userID + "|"
}

func cacheKey(userID, name string, now time.Time) string {
	return userPrefix(userID) + name + "|" + now.Format("2006-01")
}
