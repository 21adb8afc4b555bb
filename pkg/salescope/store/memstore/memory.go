// Package memstore is an in-memory store.Store used by tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/marketpulse/salescope/pkg/salescope/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	bundles map[int64]store.Bundle
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		nextID:  1,
		bundles: make(map[int64]store.Bundle),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// ReplaceReport drops any bundle matching the identity and keeps the new one.
func (s *Store) ReplaceReport(ctx context.Context, b store.Bundle) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.bundles {
		if sameIdentity(b.Identity, existing) {
			delete(s.bundles, id)
		}
	}

	id := s.nextID
	s.nextID++
	b.Report.ID = id
	if b.Report.CreatedAt.IsZero() {
		b.Report.CreatedAt = time.Now().UTC()
	}
	s.bundles[id] = b
	return id, nil
}

func sameIdentity(id store.Identity, b store.Bundle) bool {
	if id.ByContent() {
		return b.Report.WeekEnding.String == id.WeekEnding &&
			b.Report.Region.String == id.Region
	}
	return b.Report.Filename == id.Filename
}

// GetReportByIdentity returns the live report for an identity.
func (s *Store) GetReportByIdentity(ctx context.Context, id store.Identity) (store.Report, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best  store.Report
		found bool
	)
	for _, b := range s.bundles {
		if sameIdentity(id, b) && (!found || b.Report.ID > best.ID) {
			best = b.Report
			found = true
		}
	}
	return best, found, nil
}

// ListReports returns reports newest first.
func (s *Store) ListReports(ctx context.Context, limit int) ([]store.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	reports := make([]store.Report, 0, len(s.bundles))
	for _, b := range s.bundles {
		reports = append(reports, b.Report)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].ID > reports[j].ID })
	if len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

// TableCounts reports per-section row counts for one report.
func (s *Store) TableCounts(ctx context.Context, reportID int64) (store.Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bundles[reportID]
	if !ok {
		return store.Counts{}, nil
	}
	return store.Counts{
		CountySummaries:   len(b.CountySummaries),
		WeeklyMetrics:     len(b.WeeklyMetrics),
		YearlyComparisons: len(b.YearlyComparisons),
		ProjectStats:      len(b.ProjectStats),
		ProjectTotals:     len(b.ProjectTotals),
		MLSSurveys:        len(b.MLSSurveys),
		CityCodes:         len(b.CityCodes),
	}, nil
}

// ProjectStatsResolved joins project rows against the report's own legend.
func (s *Store) ProjectStatsResolved(ctx context.Context, reportID int64) ([]store.ResolvedProjectStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bundles[reportID]
	if !ok {
		return nil, nil
	}
	names := make(map[string]string, len(b.CityCodes))
	for _, cc := range b.CityCodes {
		if _, dup := names[cc.Code]; !dup {
			names[cc.Code] = cc.Name
		}
	}

	stats := make([]store.ResolvedProjectStat, 0, len(b.ProjectStats))
	for _, ps := range b.ProjectStats {
		r := store.ResolvedProjectStat{ProjectStat: ps}
		if name, ok := names[ps.CityCode]; ok {
			r.CityName = store.NullStr(name)
		}
		stats = append(stats, r)
	}
	return stats, nil
}
