// Package report exposes the spa reporting engine to transports: it resolves
// request ranges, loads ledger snapshots, runs the engine and maps the
// results to response DTOs.
package report

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/spa/backend/internal/domain/report"
	"github.com/spa/backend/internal/domain/shared/valueobject"
	"github.com/spa/backend/internal/domain/spa"
	"github.com/spa/backend/internal/infrastructure/logger"
	"github.com/spa/backend/internal/infrastructure/telemetry"
)

// ReportCache stores serialized report responses.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options tunes defaults and caching.
type Options struct {
	TopServicesLimit    int
	TopRevenueDaysLimit int
	ServiceType         string
	CacheTTL            time.Duration
	CacheKeyPrefix      string
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		TopServicesLimit:    report.DefaultTopServicesLimit,
		TopRevenueDaysLimit: report.DefaultTopRevenueDaysLimit,
		ServiceType:         report.DefaultDistinguishedServiceType,
		CacheTTL:            time.Hour,
		CacheKeyPrefix:      "spa:report:",
	}
}

// ServiceOption configures a ReportService
type ServiceOption func(*ReportService)

// WithOptions overrides the defaults. Zero fields keep their default.
func WithOptions(opts Options) ServiceOption {
	return func(s *ReportService) {
		if opts.TopServicesLimit > 0 {
			s.opts.TopServicesLimit = opts.TopServicesLimit
		}
		if opts.TopRevenueDaysLimit > 0 {
			s.opts.TopRevenueDaysLimit = opts.TopRevenueDaysLimit
		}
		if opts.ServiceType != "" {
			s.opts.ServiceType = opts.ServiceType
		}
		if opts.CacheTTL > 0 {
			s.opts.CacheTTL = opts.CacheTTL
		}
		if opts.CacheKeyPrefix != "" {
			s.opts.CacheKeyPrefix = opts.CacheKeyPrefix
		}
	}
}

// WithCache enables cache-aside for reports over closed ranges.
func WithCache(cache ReportCache) ServiceOption {
	return func(s *ReportService) {
		s.cache = cache
	}
}

// WithMetrics records report metrics.
func WithMetrics(m *telemetry.ReportMetrics) ServiceOption {
	return func(s *ReportService) {
		s.metrics = m
	}
}

// WithClock replaces the reference instant used for selectors, discount
// checks and cache eligibility.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *ReportService) {
		s.now = now
	}
}

// ReportService provides application-level report operations
type ReportService struct {
	bookings  spa.BookingReader
	expenses  spa.ExpenseReader
	salaries  spa.SalaryReader
	discounts spa.DiscountReader

	cache   ReportCache
	metrics *telemetry.ReportMetrics
	flight  singleflight.Group
	opts    Options
	now     func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	bookings spa.BookingReader,
	expenses spa.ExpenseReader,
	salaries spa.SalaryReader,
	discounts spa.DiscountReader,
	opts ...ServiceOption,
) *ReportService {
	s := &ReportService{
		bookings:  bookings,
		expenses:  expenses,
		salaries:  salaries,
		discounts: discounts,
		opts:      DefaultOptions(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// snapshotNeeds says which parts of the ledger a report reads.
type snapshotNeeds struct {
	allStatuses  bool
	expenses     bool
	skipBookings bool
}

var (
	payedWithExpenses = snapshotNeeds{expenses: true}
	payedOnly         = snapshotNeeds{}
	everyBooking      = snapshotNeeds{allStatuses: true}
	expensesOnly      = snapshotNeeds{expenses: true, skipBookings: true}
)

// loadSnapshot reads the ledger for r. Bookings are restricted to PAYED at
// the source unless needs.allStatuses is set.
func (s *ReportService) loadSnapshot(ctx context.Context, r report.DateRange, needs snapshotNeeds) (report.Snapshot, error) {
	snap := report.Snapshot{Range: r}
	if r.IsEmpty() {
		return snap, nil
	}

	filter := spa.BookingFilter{DateFilter: r.Filter()}
	if !needs.allStatuses {
		filter = filter.PayedOnly()
	}

	g, gctx := errgroup.WithContext(ctx)
	if !needs.skipBookings {
		g.Go(func() error {
			bookings, err := s.bookings.FindBookings(gctx, filter)
			if err != nil {
				return err
			}
			snap.Bookings = bookings
			return nil
		})
	}
	if needs.expenses {
		g.Go(func() error {
			expenses, err := s.expenses.FindExpenses(gctx, r.Filter())
			if err != nil {
				return err
			}
			snap.Expenses = expenses
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.L(ctx).Error("failed to read ledger",
			zap.String("range", r.String()),
			zap.Error(err),
		)
		return report.Snapshot{}, err
	}

	s.metrics.RecordLedgerRows(ctx, "bookings", len(snap.Bookings))
	s.metrics.RecordLedgerRows(ctx, "expenses", len(snap.Expenses))
	return snap, nil
}

// cacheable reports whether r ended before today, so its ledger is settled.
func (s *ReportService) cacheable(r report.DateRange) bool {
	return s.cache != nil && r.End.Before(valueobject.StartOfDay(s.now()))
}

func (s *ReportService) cacheKey(name string, r report.DateRange, parts ...string) string {
	key := s.opts.CacheKeyPrefix + name + ":" + r.String()
	if len(parts) > 0 {
		key += ":" + strings.Join(parts, ":")
	}
	return key
}

// run computes one report inside a span, serving closed ranges from the
// cache and collapsing concurrent identical computations.
func run[T any](ctx context.Context, s *ReportService, name string, r report.DateRange, keyParts []string, compute func(context.Context) (T, error)) (T, error) {
	started := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "report", name,
		telemetry.WithAttribute(telemetry.SpanAttrRangeStart, valueobject.FormatDate(r.Start)),
		telemetry.WithAttribute(telemetry.SpanAttrRangeEnd, valueobject.FormatDate(r.End)),
	)
	defer span.End()

	result, err := s.serve(ctx, name, r, keyParts, func(ctx context.Context) (any, error) {
		return compute(ctx)
	}, func(raw []byte) (any, error) {
		var out T
		err := json.Unmarshal(raw, &out)
		return out, err
	})
	s.metrics.RecordReport(ctx, name, time.Since(started), err)
	if err != nil {
		telemetry.RecordError(span, err)
		var zero T
		return zero, err
	}
	telemetry.SetOK(span)

	logger.L(ctx).Debug("report computed",
		zap.String("report", name),
		zap.String("range", r.String()),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result.(T), nil
}

func (s *ReportService) serve(
	ctx context.Context,
	name string,
	r report.DateRange,
	keyParts []string,
	compute func(context.Context) (any, error),
	decode func([]byte) (any, error),
) (any, error) {
	if !s.cacheable(r) {
		return compute(ctx)
	}

	key := s.cacheKey(name, r, keyParts...)
	span := telemetry.SpanFromContext(ctx)

	raw, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.L(ctx).Warn("report cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		if out, err := decode(raw); err == nil {
			s.metrics.RecordCache(ctx, name, true)
			telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, true)
			return out, nil
		}
		logger.L(ctx).Warn("discarding undecodable cached report", zap.String("key", key))
	}
	s.metrics.RecordCache(ctx, name, false)
	telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, false)

	// The shared computation outlives any single caller; each caller only
	// stops waiting on its own cancellation.
	ch := s.flight.DoChan(key, func() (any, error) {
		flightCtx := context.WithoutCancel(ctx)
		result, err := compute(flightCtx)
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(flightCtx, key, payload, s.opts.CacheTTL); err != nil {
				logger.L(flightCtx).Warn("report cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return result, nil
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
