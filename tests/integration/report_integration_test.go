package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reportapp "github.com/spa/backend/internal/application/report"
	"github.com/spa/backend/internal/domain/report"
	"github.com/spa/backend/internal/domain/spa"
	"github.com/spa/backend/internal/infrastructure/cache"
	"github.com/spa/backend/internal/infrastructure/persistence"
	"github.com/spa/backend/tests/testutil"
)

// TestMain runs before any tests and handles cleanup
func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

// reportClock is the reference instant of every service in this package.
var reportClock = time.Date(2024, time.July, 15, 9, 0, 0, 0, time.UTC)

var therapist = testutil.NewTestUUID("therapist")

type ledger struct {
	bookings  *persistence.GormBookingRepository
	expenses  *persistence.GormExpenseRepository
	salaries  *persistence.GormSalaryRepository
	discounts *persistence.GormDiscountRepository
}

func newLedger(tdb *TestDB) ledger {
	return ledger{
		bookings:  persistence.NewGormBookingRepository(tdb.DB),
		expenses:  persistence.NewGormExpenseRepository(tdb.DB),
		salaries:  persistence.NewGormSalaryRepository(tdb.DB),
		discounts: persistence.NewGormDiscountRepository(tdb.DB),
	}
}

func (l ledger) service(opts ...reportapp.ServiceOption) *reportapp.ReportService {
	opts = append([]reportapp.ServiceOption{reportapp.WithClock(func() time.Time { return reportClock })}, opts...)
	return reportapp.NewReportService(l.bookings, l.expenses, l.salaries, l.discounts, opts...)
}

// seedJune writes the first week of June 2024 and one booking in May:
//
//	03-06  SPRING10 booking, Hammam 100 + Massage 50, 10% commission unpaid
//	03-06  two guests on Hammam 100, flat commission 20 paid
//	05-06  canceled Massage 50, deleted Hammam 100
//	03-05  Massage 50
//
// Expenses are Towels 30 on 03-06 and Oil 20 on 05-06.
func seedJune(t *testing.T, l ledger) {
	t.Helper()
	ctx := context.Background()
	june := func(d int) time.Time { return testutil.Date(2024, time.June, d) }

	hammam := testutil.Service("s1", "Hammam", "100", "Beldi")
	massage := testutil.Service("s2", "Massage", "50", "Relax")

	promo := &spa.Discount{
		Code:   "SPRING10",
		Type:   spa.DiscountTypePercent,
		Value:  testutil.Amount("10"),
		Status: spa.DiscountStatusActive,
	}
	require.NoError(t, l.discounts.Create(ctx, promo))

	bookings := []*spa.Booking{
		testutil.NewBooking(june(3), [][]spa.ServiceLine{{hammam, massage}},
			testutil.WithDiscount(promo),
			testutil.WithSource("Instagram"),
			testutil.WithCommission(spa.CommissionTypePercentSymbol, "10", false),
			testutil.WithCardDebit("135"),
		),
		testutil.NewBooking(june(3), [][]spa.ServiceLine{{hammam}, {hammam}},
			testutil.WithSource("instagram"),
			testutil.WithCommission(spa.CommissionTypeFlat, "20", true),
		),
		testutil.NewBooking(june(5), [][]spa.ServiceLine{{massage}},
			testutil.WithStatus(spa.BookingStatusCanceled),
			testutil.WithSource("facebook"),
		),
		testutil.NewBooking(june(5), [][]spa.ServiceLine{{hammam}}, testutil.Deleted()),
		testutil.NewBooking(testutil.Date(2024, time.May, 3), [][]spa.ServiceLine{{massage}}),
	}
	for _, b := range bookings {
		require.NoError(t, l.bookings.Create(ctx, b))
	}

	require.NoError(t, l.expenses.Create(ctx, testutil.NewExpense(june(3), "Towels", "Laundry", "30", "CASH")))
	require.NoError(t, l.expenses.Create(ctx, testutil.NewExpense(june(5), "Oil", "Supplies", "20", "CARD")))

	require.NoError(t, l.salaries.Create(ctx, testutil.NewSalary(therapist, june(10), spa.SalaryStatusPaid, "1000")))
	require.NoError(t, l.salaries.Create(ctx, testutil.NewSalary(therapist, june(20), spa.SalaryStatusUnpaid, "500")))
}

func firstWeekOfJune(t *testing.T) report.DateRange {
	t.Helper()
	r, err := report.ParseDateRange("01-06-2024", "07-06-2024")
	require.NoError(t, err)
	return r
}

func TestReportService_Integration(t *testing.T) {
	tdb := NewTestDB(t)
	l := newLedger(tdb)
	seedJune(t, l)
	svc := l.service()
	ctx := context.Background()
	week := firstWeekOfJune(t)

	t.Run("DailyStats", func(t *testing.T) {
		daily, err := svc.DailyStats(ctx, week)
		require.NoError(t, err)

		require.Len(t, daily.Days, 7)
		assert.Equal(t, "03-06-2024", daily.Days[2].Date)
		assert.InDelta(t, 335, daily.Days[2].Revenue, 0.001)
		assert.InDelta(t, 30, daily.Days[2].Expenses, 0.001)
		assert.InDelta(t, -20, daily.Days[4].Profit, 0.001)

		assert.InDelta(t, 335, daily.TotalRevenue, 0.001)
		assert.InDelta(t, 50, daily.TotalExpenses, 0.001)
		assert.InDelta(t, 285, daily.TotalProfit, 0.001)
		assert.InDelta(t, 15, daily.TotalDiscount, 0.001)
	})

	t.Run("TypedDailyStats", func(t *testing.T) {
		typed, err := svc.TypedDailyStats(ctx, week, "beldi")
		require.NoError(t, err)

		assert.InDelta(t, 300, typed.TotalTypedRevenue, 0.001)
		assert.InDelta(t, 135, typed.TotalCardRevenue, 0.001)
	})

	t.Run("Progress", func(t *testing.T) {
		progress, err := svc.Progress(ctx, week)
		require.NoError(t, err)

		assert.Equal(t, "01-05-2024", progress.Previous.StartDate)
		assert.Equal(t, "07-05-2024", progress.Previous.EndDate)
		assert.InDelta(t, 50, progress.Revenue.Previous, 0.001)
		require.NotNil(t, progress.Revenue.Percentage)
		assert.InDelta(t, 570, *progress.Revenue.Percentage, 0.001)
		assert.Nil(t, progress.Expenses.Percentage)
		assert.InDelta(t, 3, progress.Clients.Value, 0.001)
		assert.InDelta(t, 1, progress.Clients.Previous, 0.001)
	})

	t.Run("TopServices", func(t *testing.T) {
		top, err := svc.TopServices(ctx, week, 0)
		require.NoError(t, err)

		require.Len(t, top, 2)
		assert.Equal(t, "Hammam", top[0].Name)
		assert.Equal(t, 3, top[0].Count)
		assert.Equal(t, "Massage", top[1].Name)
		assert.Equal(t, 1, top[1].Count)
	})

	t.Run("TopRevenueDays", func(t *testing.T) {
		days, err := svc.TopRevenueDays(ctx, week, 0)
		require.NoError(t, err)

		require.NotEmpty(t, days)
		assert.Equal(t, "03-06-2024", days[0].Date)
		assert.Len(t, days[0].Bookings, 2)
	})

	t.Run("Sources", func(t *testing.T) {
		sources, err := svc.Sources(ctx, week)
		require.NoError(t, err)

		assert.ElementsMatch(t, []reportapp.SourceCountResponse{
			{Source: "Instagram", Count: 1},
			{Source: "instagram", Count: 1},
			{Source: "facebook", Count: 1},
		}, sources)
	})

	t.Run("Commissions", func(t *testing.T) {
		commissions, err := svc.Commissions(ctx, week)
		require.NoError(t, err)

		require.Len(t, commissions.Sources, 1)
		assert.Equal(t, "instagram", commissions.Sources[0].Source)
		assert.Equal(t, 2, commissions.Sources[0].Bookings)
		assert.InDelta(t, 35, commissions.Total, 0.001)
		assert.InDelta(t, 20, commissions.TotalPaid, 0.001)
		assert.InDelta(t, 15, commissions.TotalUnpaid, 0.001)
	})

	t.Run("Payroll", func(t *testing.T) {
		month, err := svc.ResolveRange(reportapp.RangeFilter{Selector: "month", Year: 2024, Month: 6})
		require.NoError(t, err)

		payroll, err := svc.Payroll(ctx, month)
		require.NoError(t, err)

		assert.InDelta(t, 1000, payroll.TotalPaid, 0.001)
		assert.InDelta(t, 500, payroll.TotalUnpaid, 0.001)
		require.Len(t, payroll.Employees, 1)
		assert.Equal(t, therapist.String(), payroll.Employees[0].EmployeeID)
	})

	t.Run("CheckDiscount", func(t *testing.T) {
		found, err := svc.CheckDiscount(ctx, "SPRING10")
		require.NoError(t, err)
		assert.Equal(t, string(report.DiscountValid), found.Result)
		require.NotNil(t, found.Discount)
		assert.InDelta(t, 10, found.Discount.Value, 0.001)

		missing, err := svc.CheckDiscount(ctx, "WINTER50")
		require.NoError(t, err)
		assert.Equal(t, string(report.DiscountNotFound), missing.Result)
		assert.Nil(t, missing.Discount)
	})

	t.Run("ExportWorkbook", func(t *testing.T) {
		book, err := svc.ExportWorkbook(ctx, week)
		require.NoError(t, err)
		assert.Equal(t, "PK", string(book[:2]))
	})
}

func TestReportService_CachesClosedRanges(t *testing.T) {
	tdb := NewTestDB(t)
	l := newLedger(tdb)
	seedJune(t, l)

	store := cache.NewInMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	svc := l.service(reportapp.WithCache(store))
	ctx := context.Background()
	week := firstWeekOfJune(t)

	first, err := svc.DailyStats(ctx, week)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Size())

	// The ledger is gone, the closed week is still served from the cache.
	tdb.CleanTables()

	second, err := svc.DailyStats(ctx, week)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	removed, err := store.DeletePrefix(ctx, reportapp.DefaultOptions().CacheKeyPrefix)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	third, err := svc.DailyStats(ctx, week)
	require.NoError(t, err)
	assert.Zero(t, third.TotalRevenue)
}
