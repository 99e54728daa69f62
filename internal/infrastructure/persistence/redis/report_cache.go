package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/presenca-hub/attendance-hub/internal/domain/report"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/pkg/circuitbreaker"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT CACHE IMPLEMENTATION
// Keys encode the period first and the filter last, so a day or month can be
// dropped across all filters with one pattern:
//
//	report:daily:2024-03-11:grade=5º ano|class=B
//	report:monthly:2024-03:-
// ══════════════════════════════════════════════════════════════════════════════

// ReportCache implements report.Cache on Redis. An optional circuit breaker
// guards every Redis call; when it is open, reads report a miss and writes
// fail fast, and the query handlers rebuild from the ledger.
type ReportCache struct {
	cache   *Cache
	breaker *circuitbreaker.CircuitBreaker
}

// NewReportCache creates a new ReportCache.
func NewReportCache(cache *Cache) *ReportCache {
	return &ReportCache{cache: cache}
}

// NewReportCacheWithBreaker creates a ReportCache guarded by a circuit breaker.
func NewReportCacheWithBreaker(cache *Cache, breaker *circuitbreaker.CircuitBreaker) *ReportCache {
	return &ReportCache{cache: cache, breaker: breaker}
}

// do runs op through the breaker when one is configured.
func (rc *ReportCache) do(ctx context.Context, op func(ctx context.Context) error) error {
	if rc.breaker == nil {
		return op(ctx)
	}
	return rc.breaker.Execute(ctx, op)
}

// GetDaily returns a cached daily view, or nil on miss.
func (rc *ReportCache) GetDaily(ctx context.Context, day shared.Day, filter shared.AttributeFilter) (*report.DailyAbsenceList, error) {
	var view report.DailyAbsenceList
	err := rc.do(ctx, func(ctx context.Context) error {
		return rc.cache.Get(ctx, dailyKey(day, filter), &view)
	})
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// SetDaily stores a daily view.
func (rc *ReportCache) SetDaily(ctx context.Context, view *report.DailyAbsenceList) error {
	if view == nil {
		return ErrCacheNilValue
	}
	return rc.do(ctx, func(ctx context.Context) error {
		return rc.cache.Set(ctx, dailyKey(view.Day, view.Filter), view, TTLDailyReport)
	})
}

// GetMonthly returns a cached monthly view, or nil on miss.
func (rc *ReportCache) GetMonthly(ctx context.Context, year int, month time.Month, filter shared.AttributeFilter) (*report.MonthlyAbsenceSummary, error) {
	var view report.MonthlyAbsenceSummary
	err := rc.do(ctx, func(ctx context.Context) error {
		return rc.cache.Get(ctx, monthlyKey(year, month, filter), &view)
	})
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// SetMonthly stores a monthly view.
func (rc *ReportCache) SetMonthly(ctx context.Context, view *report.MonthlyAbsenceSummary) error {
	if view == nil {
		return ErrCacheNilValue
	}
	return rc.do(ctx, func(ctx context.Context) error {
		return rc.cache.Set(ctx, monthlyKey(view.Year, view.Month, view.Filter), view, TTLMonthlyReport)
	})
}

// InvalidateDay drops every cached daily view of the day, whatever filter it
// was built with.
func (rc *ReportCache) InvalidateDay(ctx context.Context, day shared.Day) error {
	return rc.do(ctx, func(ctx context.Context) error {
		return rc.cache.DeleteByPattern(ctx, PrefixDaily+day.String()+":*")
	})
}

// InvalidateMonth drops every cached monthly view of the month.
func (rc *ReportCache) InvalidateMonth(ctx context.Context, year int, month time.Month) error {
	return rc.do(ctx, func(ctx context.Context) error {
		return rc.cache.DeleteByPattern(ctx, fmt.Sprintf("%s%04d-%02d:*", PrefixMonthly, year, int(month)))
	})
}

// InvalidateAll drops every cached view.
func (rc *ReportCache) InvalidateAll(ctx context.Context) error {
	return rc.do(ctx, func(ctx context.Context) error {
		return rc.cache.DeleteByPattern(ctx, PrefixReport+"*")
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Key Building
// ─────────────────────────────────────────────────────────────────────────────

func dailyKey(day shared.Day, filter shared.AttributeFilter) string {
	return PrefixDaily + day.String() + ":" + filterKey(filter)
}

func monthlyKey(year int, month time.Month, filter shared.AttributeFilter) string {
	return fmt.Sprintf("%s%04d-%02d:%s", PrefixMonthly, year, int(month), filterKey(filter))
}

// filterKey flattens a filter into a stable key segment. The unfiltered view
// gets "-" so the key never ends in the period separator.
func filterKey(f shared.AttributeFilter) string {
	if f.IsZero() {
		return "-"
	}
	return strings.ReplaceAll(f.Label(), " ", "|")
}
