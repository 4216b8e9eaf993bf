package authcore

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/enterprise-platform/authcore/cache"
)

// Stats returns the aggregate dashboard snapshot, cache-aside under
// dashboard:stats with a 5-minute lifetime. The success rate comes from the
// engine-owned metrics collector, not from free-floating globals.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	e.trackRequest()

	stats, err := cache.ReadThrough(ctx, e.cache, cache.KeyStats, e.config.CacheTTL.Stats, func(ctx context.Context) (*Stats, error) {
		return e.computeStats(ctx)
	})
	if err != nil {
		return nil, e.storeFailure(ctx, "dashboard_stats", err)
	}
	return stats, nil
}

func (e *Engine) computeStats(ctx context.Context) (*Stats, error) {
	now := time.Now()

	total, err := e.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := e.store.CountActiveSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	prev, err := e.store.CountCreatedBefore(ctx, now.Add(-30*24*time.Hour))
	if err != nil {
		return nil, err
	}

	var growth float64
	if prev > 0 {
		growth = math.Round(float64(total-prev)/float64(prev)*1000) / 10
	}
	activeGrowth := 0
	if total > 0 {
		activeGrowth = active * 100 / total
	}

	uptime := e.metrics.Uptime()
	return &Stats{
		TotalUsers:    total,
		ActiveUsers:   active,
		UserGrowth:    growth,
		ActiveGrowth:  activeGrowth,
		SuccessRate:   e.metrics.SuccessRate(),
		UptimeSeconds: uptime.Seconds(),
		UptimeDays:    int(uptime.Hours() / 24),
		ServerTime:    now,
	}, nil
}

// Charts returns the hourly new-user series for the last 24 hours,
// cache-aside under dashboard:charts:<period> with a 10-minute lifetime.
// The period parameter selects the cache entry only; the series itself is
// always the trailing 24 hours, matching the dashboard contract.
func (e *Engine) Charts(ctx context.Context, period string) (*Charts, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	e.trackRequest()

	if period == "" {
		period = "24h"
	}

	charts, err := cache.ReadThrough(ctx, e.cache, cache.ChartsKey(period), e.config.CacheTTL.Charts, func(ctx context.Context) (*Charts, error) {
		return e.computeCharts(ctx)
	})
	if err != nil {
		return nil, e.storeFailure(ctx, "dashboard_charts", err)
	}
	return charts, nil
}

func (e *Engine) computeCharts(ctx context.Context) (*Charts, error) {
	now := time.Now()
	out := &Charts{
		Labels:   make([]string, 0, 24),
		NewUsers: make([]int, 0, 24),
	}

	for i := 23; i >= 0; i-- {
		hourStart := now.Add(-time.Duration(i+1) * time.Hour)
		hourEnd := hourStart.Add(time.Hour)

		count, err := e.store.CountCreatedBetween(ctx, hourStart, hourEnd)
		if err != nil {
			return nil, err
		}

		out.Labels = append(out.Labels, fmt.Sprintf("%d:00", hourStart.Hour()))
		out.NewUsers = append(out.NewUsers, count)
	}

	return out, nil
}
