package report

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spa/backend/internal/domain/report"
	"github.com/spa/backend/internal/domain/shared"
	"github.com/spa/backend/internal/domain/shared/valueobject"
	"github.com/spa/backend/internal/domain/spa"
	"github.com/spa/backend/internal/infrastructure/logger"
	"github.com/spa/backend/internal/infrastructure/telemetry"
)

// DailyStats returns revenue, expenses and profit for every day of r.
func (s *ReportService) DailyStats(ctx context.Context, r report.DateRange) (DailyStatsResponse, error) {
	return run(ctx, s, "daily", r, nil, func(ctx context.Context) (DailyStatsResponse, error) {
		snap, err := s.loadSnapshot(ctx, r, payedWithExpenses)
		if err != nil {
			return DailyStatsResponse{}, err
		}
		stats := report.ComputeDailyStats(snap)
		return toDailyResponse(r, stats, report.TotalDiscountForRange(r, snap.Bookings)), nil
	})
}

// TypedDailyStats returns the daily series with the revenue of serviceType
// split out. An empty serviceType uses the configured one.
func (s *ReportService) TypedDailyStats(ctx context.Context, r report.DateRange, serviceType string) (TypedDailyStatsResponse, error) {
	serviceType = strings.TrimSpace(serviceType)
	if serviceType == "" {
		serviceType = s.opts.ServiceType
	}
	return run(ctx, s, "typed-daily", r, []string{strings.ToLower(serviceType)}, func(ctx context.Context) (TypedDailyStatsResponse, error) {
		snap, err := s.loadSnapshot(ctx, r, payedWithExpenses)
		if err != nil {
			return TypedDailyStatsResponse{}, err
		}
		return toTypedDailyResponse(r, report.ComputeTypedDailyStats(snap, serviceType)), nil
	})
}

// Progress compares r with the same window one month earlier.
func (s *ReportService) Progress(ctx context.Context, r report.DateRange) (ProgressResponse, error) {
	return run(ctx, s, "progress", r, nil, func(ctx context.Context) (ProgressResponse, error) {
		var current, previous report.Snapshot
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			current, err = s.loadSnapshot(gctx, r, payedWithExpenses)
			return err
		})
		g.Go(func() error {
			var err error
			previous, err = s.loadSnapshot(gctx, r.PreviousMonth(), payedWithExpenses)
			return err
		})
		if err := g.Wait(); err != nil {
			return ProgressResponse{}, err
		}
		return toProgressResponse(report.ComputeProgressStats(current, previous)), nil
	})
}

// TopServices ranks the most sold services of r. A non-positive limit uses
// the configured default.
func (s *ReportService) TopServices(ctx context.Context, r report.DateRange, limit int) ([]TopServiceResponse, error) {
	if limit <= 0 {
		limit = s.opts.TopServicesLimit
	}
	return run(ctx, s, "top-services", r, []string{strconv.Itoa(limit)}, func(ctx context.Context) ([]TopServiceResponse, error) {
		snap, err := s.loadSnapshot(ctx, r, payedOnly)
		if err != nil {
			return nil, err
		}
		return toTopServices(report.TopServices(r, snap.Bookings, limit)), nil
	})
}

// TopRevenueDays ranks the days of r by PAYED revenue.
func (s *ReportService) TopRevenueDays(ctx context.Context, r report.DateRange, limit int) ([]RevenueDayResponse, error) {
	if limit <= 0 {
		limit = s.opts.TopRevenueDaysLimit
	}
	return run(ctx, s, "top-revenue-days", r, []string{strconv.Itoa(limit)}, func(ctx context.Context) ([]RevenueDayResponse, error) {
		snap, err := s.loadSnapshot(ctx, r, payedOnly)
		if err != nil {
			return nil, err
		}
		return toRevenueDays(report.TopRevenueDays(r, snap.Bookings, limit)), nil
	})
}

// Sources counts the bookings of r per acquisition source, any status.
func (s *ReportService) Sources(ctx context.Context, r report.DateRange) ([]SourceCountResponse, error) {
	return run(ctx, s, "sources", r, nil, func(ctx context.Context) ([]SourceCountResponse, error) {
		snap, err := s.loadSnapshot(ctx, r, everyBooking)
		if err != nil {
			return nil, err
		}
		return toSourceCounts(report.SourceDistribution(r, snap.Bookings)), nil
	})
}

// Commissions returns the commission owed per source over r.
func (s *ReportService) Commissions(ctx context.Context, r report.DateRange) (CommissionReportResponse, error) {
	return run(ctx, s, "commissions", r, nil, func(ctx context.Context) (CommissionReportResponse, error) {
		snap, err := s.loadSnapshot(ctx, r, payedOnly)
		if err != nil {
			return CommissionReportResponse{}, err
		}

		resp := CommissionReportResponse{RangeResponse: rangeResponse(r), Sources: []SourceCommissionResponse{}}
		total, paid, unpaid := decimal.Zero, decimal.Zero, decimal.Zero
		for _, c := range report.CommissionBySource(r, snap.Bookings) {
			total = total.Add(c.Total)
			paid = paid.Add(c.Paid)
			unpaid = unpaid.Add(c.Unpaid)
			resp.Sources = append(resp.Sources, SourceCommissionResponse{
				Source:   c.Source,
				Unknown:  c.Unknown,
				Total:    toFloat64(c.Total),
				Paid:     toFloat64(c.Paid),
				Unpaid:   toFloat64(c.Unpaid),
				Bookings: c.Bookings,
			})
		}
		resp.Total = toFloat64(total)
		resp.TotalPaid = toFloat64(paid)
		resp.TotalUnpaid = toFloat64(unpaid)
		return resp, nil
	})
}

// GroupedExpenses sums the expenses of r per (name, type).
func (s *ReportService) GroupedExpenses(ctx context.Context, r report.DateRange) ([]ExpenseGroupResponse, error) {
	return run(ctx, s, "grouped-expenses", r, nil, func(ctx context.Context) ([]ExpenseGroupResponse, error) {
		snap, err := s.loadSnapshot(ctx, r, expensesOnly)
		if err != nil {
			return nil, err
		}
		groups := report.GroupedExpenses(r, snap.Expenses)
		out := make([]ExpenseGroupResponse, len(groups))
		for i, g := range groups {
			out[i] = ExpenseGroupResponse{
				Label: g.Label(),
				Name:  g.Name,
				Type:  g.Type,
				Total: toFloat64(g.Total),
				Count: g.Count,
			}
		}
		return out, nil
	})
}

// PaymentChannels splits the revenue and expenses of r by payment channel.
func (s *ReportService) PaymentChannels(ctx context.Context, r report.DateRange) (PaymentChannelResponse, error) {
	return run(ctx, s, "payment-channels", r, nil, func(ctx context.Context) (PaymentChannelResponse, error) {
		snap, err := s.loadSnapshot(ctx, r, payedWithExpenses)
		if err != nil {
			return PaymentChannelResponse{}, err
		}
		rep := report.ComputePaymentChannels(r, snap.Bookings, snap.Expenses)
		channels := make([]ChannelTotalResponse, len(rep.ExpensesByChannel))
		for i, c := range rep.ExpensesByChannel {
			channels[i] = ChannelTotalResponse{Channel: c.Channel, Untagged: c.Untagged, Total: toFloat64(c.Total)}
		}
		return PaymentChannelResponse{
			RangeResponse:     rangeResponse(r),
			TotalRevenue:      toFloat64(rep.TotalRevenue),
			CardRevenue:       toFloat64(rep.CardRevenue),
			CashRevenue:       toFloat64(rep.CashRevenue),
			ExpensesByChannel: channels,
			TotalExpenses:     toFloat64(rep.TotalExpenses),
		}, nil
	})
}

// Payroll totals the salaries of r per status and employee.
func (s *ReportService) Payroll(ctx context.Context, r report.DateRange) (PayrollResponse, error) {
	return run(ctx, s, "payroll", r, nil, func(ctx context.Context) (PayrollResponse, error) {
		var salaries []spa.Salary
		if !r.IsEmpty() {
			var err error
			salaries, err = s.salaries.FindSalaries(ctx, r.Filter())
			if err != nil {
				logger.L(ctx).Error("failed to read salaries", zap.String("range", r.String()), zap.Error(err))
				return PayrollResponse{}, err
			}
			s.metrics.RecordLedgerRows(ctx, "salaries", len(salaries))
		}

		sum := report.ComputePayroll(r, salaries)
		employees := make([]EmployeePayrollResponse, len(sum.Employees))
		for i, e := range sum.Employees {
			employees[i] = EmployeePayrollResponse{
				EmployeeID: e.EmployeeID.String(),
				Paid:       toFloat64(e.Paid),
				Unpaid:     toFloat64(e.Unpaid),
				Entries:    e.Entries,
			}
		}
		return PayrollResponse{
			RangeResponse: rangeResponse(r),
			TotalPaid:     toFloat64(sum.TotalPaid),
			TotalUnpaid:   toFloat64(sum.TotalUnpaid),
			Total:         toFloat64(sum.Total),
			Employees:     employees,
		}, nil
	})
}

// Dashboard computes the headline reports of r concurrently.
func (s *ReportService) Dashboard(ctx context.Context, r report.DateRange, topServicesLimit, topRevenueDaysLimit int) (DashboardResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "dashboard")
	defer span.End()

	var resp DashboardResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.Daily, err = s.DailyStats(gctx, r)
		return err
	})
	g.Go(func() (err error) {
		resp.Progress, err = s.Progress(gctx, r)
		return err
	})
	g.Go(func() (err error) {
		resp.TopServices, err = s.TopServices(gctx, r, topServicesLimit)
		return err
	})
	g.Go(func() (err error) {
		resp.TopRevenueDays, err = s.TopRevenueDays(gctx, r, topRevenueDaysLimit)
		return err
	})
	g.Go(func() (err error) {
		resp.Sources, err = s.Sources(gctx, r)
		return err
	})
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return DashboardResponse{}, err
	}
	telemetry.SetOK(span)
	return resp, nil
}

// CheckDiscount tells whether code can be redeemed today. An unknown code is
// a result, not an error.
func (s *ReportService) CheckDiscount(ctx context.Context, code string) (DiscountCheckResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return DiscountCheckResponse{}, shared.NewDomainError(shared.ErrInvalidInput.Code, "discount code is required")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "check-discount",
		telemetry.WithAttribute(telemetry.SpanAttrDiscountCode, code),
	)
	defer span.End()

	d, err := s.discounts.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		telemetry.RecordError(span, err)
		logger.L(ctx).Error("failed to look up discount", zap.String("code", code), zap.Error(err))
		return DiscountCheckResponse{}, err
	}
	if err != nil {
		d = nil
	}

	resp := DiscountCheckResponse{
		Code:   code,
		Result: string(report.CheckDiscount(d, s.now())),
	}
	if d != nil {
		resp.Discount = toDiscountResponse(d)
	}
	return resp, nil
}

func toDiscountResponse(d *spa.Discount) *DiscountResponse {
	out := &DiscountResponse{
		Code:        d.Code,
		Description: d.Description,
		Type:        string(d.Type),
		Value:       toFloat64(d.Value),
		Status:      string(d.Status),
	}
	if d.StartDate != nil {
		out.StartDate = valueobject.FormatDate(*d.StartDate)
	}
	if d.EndDate != nil {
		out.EndDate = valueobject.FormatDate(*d.EndDate)
	}
	return out
}
