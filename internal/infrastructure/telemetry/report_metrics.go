package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Outcome values for AttrOutcome.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// ReportMetrics holds the instruments recorded by the reporting service.
type ReportMetrics struct {
	requests   *Counter
	duration   *Histogram
	cache      *Counter
	ledgerRows *Counter
}

// NewReportMetrics creates the reporting instruments on meter.
func NewReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	requests, err := NewCounter(meter,
		"spa_report_requests_total",
		"Total number of report computations by report and outcome",
		"{request}",
	)
	if err != nil {
		return nil, err
	}

	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "spa_report_duration_seconds",
		Description: "Report computation latency including ledger reads",
		Unit:        "s",
		Boundaries:  ReportDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	cache, err := NewCounter(meter,
		"spa_report_cache_lookups_total",
		"Report cache lookups by result",
		"{lookup}",
	)
	if err != nil {
		return nil, err
	}

	ledgerRows, err := NewCounter(meter,
		"spa_ledger_rows_read_total",
		"Ledger rows read to compute reports",
		"{row}",
	)
	if err != nil {
		return nil, err
	}

	return &ReportMetrics{
		requests:   requests,
		duration:   duration,
		cache:      cache,
		ledgerRows: ledgerRows,
	}, nil
}

// RecordReport counts one computation of report and its latency.
func (m *ReportMetrics) RecordReport(ctx context.Context, report string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.requests.Inc(ctx, AttrReport.String(report), AttrOutcome.String(outcome))
	m.duration.RecordDuration(ctx, elapsed, AttrReport.String(report))
}

// RecordCache counts a cache lookup for report.
func (m *ReportMetrics) RecordCache(ctx context.Context, report string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.Inc(ctx, AttrReport.String(report), AttrCacheResult.String(result))
}

// RecordLedgerRows counts rows read from the named ledger.
func (m *ReportMetrics) RecordLedgerRows(ctx context.Context, ledger string, rows int) {
	if m == nil || rows <= 0 {
		return
	}
	m.ledgerRows.Add(ctx, int64(rows), AttrLedger.String(ledger))
}
