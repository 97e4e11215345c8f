package report

import (
	"context"
	"fmt"

	"github.com/spa/backend/internal/infrastructure/scheduler"
)

// Execute implements scheduler.JobExecutor. It computes the job's report so
// the result lands in the cache; ranges that are not yet settled are
// computed but not stored.
func (s *ReportService) Execute(ctx context.Context, job *scheduler.Job) error {
	var err error
	switch job.ReportType {
	case scheduler.ReportTypeDaily:
		_, err = s.DailyStats(ctx, job.Range)
	case scheduler.ReportTypeTypedDaily:
		_, err = s.TypedDailyStats(ctx, job.Range, s.opts.ServiceType)
	case scheduler.ReportTypeProgress:
		_, err = s.Progress(ctx, job.Range)
	case scheduler.ReportTypeTopServices:
		_, err = s.TopServices(ctx, job.Range, s.opts.TopServicesLimit)
	case scheduler.ReportTypeTopRevenueDays:
		_, err = s.TopRevenueDays(ctx, job.Range, s.opts.TopRevenueDaysLimit)
	case scheduler.ReportTypeSources:
		_, err = s.Sources(ctx, job.Range)
	case scheduler.ReportTypeCommissions:
		_, err = s.Commissions(ctx, job.Range)
	case scheduler.ReportTypeGroupedExpenses:
		_, err = s.GroupedExpenses(ctx, job.Range)
	case scheduler.ReportTypePaymentChannels:
		_, err = s.PaymentChannels(ctx, job.Range)
	case scheduler.ReportTypePayroll:
		_, err = s.Payroll(ctx, job.Range)
	default:
		return fmt.Errorf("%w: %s", scheduler.ErrInvalidReportType, job.ReportType)
	}
	if err != nil {
		return fmt.Errorf("warm %s over %s: %w", job.ReportType, job.Range, err)
	}
	return nil
}
