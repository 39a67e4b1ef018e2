package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"grievance/internal/auth"
	"grievance/internal/domain"
)

const trendMonths = 12

type StatsService struct {
	repo     StatsRepository
	observer Observer
	now      func() time.Time
}

func NewStatsService(repo StatsRepository, observer Observer, now func() time.Time) *StatsService {
	if now == nil {
		now = time.Now
	}
	return &StatsService{repo: repo, observer: observer, now: now}
}

// DashboardStats aggregates the admin dashboard. Months are UTC calendar
// months; the trend runs oldest first and always has twelve buckets.
func (s *StatsService) DashboardStats(ctx context.Context, p domain.Principal) (*domain.DashboardStats, error) {
	const op = "service.Stats.DashboardStats"

	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	since := thisMonth.AddDate(0, -(trendMonths - 1), 0)

	start := time.Now()
	snap, err := s.repo.Snapshot(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if s.observer != nil {
		s.observer.ObserveStatsSnapshot(start)
	}

	trend := make([]domain.MonthCount, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		m := thisMonth.AddDate(0, -i, 0)
		trend = append(trend, domain.MonthCount{
			Year:  m.Year(),
			Month: int(m.Month()),
			Count: snap.Monthly[m],
		})
	}

	stats := &domain.DashboardStats{
		Total:       snap.Total,
		ThisMonth:   trend[trendMonths-1].Count,
		LastMonth:   trend[trendMonths-2].Count,
		ByStatus:    zeroFilled(snap.ByStatus, statusKeys()),
		ByCategory:  zeroFilled(snap.ByCategory, nil),
		ByPriority:  zeroFilled(snap.ByPriority, priorityKeys()),
		Trend:       trend,
		GeneratedAt: now,
	}

	if stats.LastMonth > 0 {
		stats.GrowthPercent = round2(float64(stats.ThisMonth-stats.LastMonth) / float64(stats.LastMonth) * 100)
	}
	if stats.Total > 0 {
		resolved := stats.ByStatus[string(domain.StatusResolved)] + stats.ByStatus[string(domain.StatusClosed)]
		stats.ResolutionRate = round2(float64(resolved) / float64(stats.Total) * 100)
	}

	return stats, nil
}

func zeroFilled(src map[string]int64, keys []string) map[string]int64 {
	out := make(map[string]int64, len(src)+len(keys))
	for _, k := range keys {
		out[k] = 0
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}

func statusKeys() []string {
	keys := make([]string, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		keys = append(keys, string(s))
	}
	return keys
}

func priorityKeys() []string {
	keys := make([]string, 0, len(domain.Priorities))
	for _, p := range domain.Priorities {
		keys = append(keys, string(p))
	}
	return keys
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
