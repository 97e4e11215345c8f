package report

import (
	"github.com/shopspring/decimal"

	"github.com/spa/backend/internal/domain/report"
	"github.com/spa/backend/internal/domain/shared/valueobject"
)

// RangeResponse echoes the resolved window as DD-MM-YYYY dates.
type RangeResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// DailyEntryResponse is one day of the daily series
type DailyEntryResponse struct {
	Date     string  `json:"date"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// DailyStatsResponse is the daily revenue, expense and profit series
type DailyStatsResponse struct {
	RangeResponse
	Days          []DailyEntryResponse `json:"days"`
	TotalRevenue  float64              `json:"total_revenue"`
	TotalExpenses float64              `json:"total_expenses"`
	TotalProfit   float64              `json:"total_profit"`
	TotalDiscount float64              `json:"total_discount"`
}

// TypedDailyEntryResponse is one day of the service-type split series
type TypedDailyEntryResponse struct {
	DailyEntryResponse
	TypedRevenue float64 `json:"typed_revenue"`
	OtherRevenue float64 `json:"other_revenue"`
	CardRevenue  float64 `json:"card_revenue"`
}

// TypedDailyStatsResponse is the daily series split by one service type
type TypedDailyStatsResponse struct {
	RangeResponse
	ServiceType       string                    `json:"service_type"`
	Days              []TypedDailyEntryResponse `json:"days"`
	TotalRevenue      float64                   `json:"total_revenue"`
	TotalExpenses     float64                   `json:"total_expenses"`
	TotalProfit       float64                   `json:"total_profit"`
	TotalTypedRevenue float64                   `json:"total_typed_revenue"`
	TotalOtherRevenue float64                   `json:"total_other_revenue"`
	TotalCardRevenue  float64                   `json:"total_card_revenue"`
}

// MetricChangeResponse compares a metric with the previous month.
// Percentage is null when the previous value is zero and the current is not.
type MetricChangeResponse struct {
	Value      float64  `json:"value"`
	Previous   float64  `json:"previous"`
	Percentage *float64 `json:"percentage"`
}

// ProgressResponse compares the window with the same window a month earlier
type ProgressResponse struct {
	Current  RangeResponse        `json:"current"`
	Previous RangeResponse        `json:"previous"`
	Revenue  MetricChangeResponse `json:"revenue"`
	Expenses MetricChangeResponse `json:"expenses"`
	Profit   MetricChangeResponse `json:"profit"`
	Clients  MetricChangeResponse `json:"clients"`
}

// TopServiceResponse is one entry of the most-sold services ranking
type TopServiceResponse struct {
	Rank      int     `json:"rank"`
	ServiceID string  `json:"service_id,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Count     int     `json:"count"`
}

// BookingRevenueResponse is one booking behind a revenue day
type BookingRevenueResponse struct {
	BookingID string  `json:"booking_id"`
	Revenue   float64 `json:"revenue"`
}

// RevenueDayResponse is one entry of the best revenue days ranking
type RevenueDayResponse struct {
	Rank     int                      `json:"rank"`
	Date     string                   `json:"date"`
	Revenue  float64                  `json:"revenue"`
	Bookings []BookingRevenueResponse `json:"bookings"`
}

// SourceCountResponse is the number of bookings coming from one source
type SourceCountResponse struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// SourceCommissionResponse is the commission owed to one source.
// Unknown marks the bucket of bookings without a source tag.
type SourceCommissionResponse struct {
	Source   string  `json:"source"`
	Unknown  bool    `json:"unknown,omitempty"`
	Total    float64 `json:"total"`
	Paid     float64 `json:"paid"`
	Unpaid   float64 `json:"unpaid"`
	Bookings int     `json:"bookings"`
}

// CommissionReportResponse lists commissions per source with grand totals
type CommissionReportResponse struct {
	RangeResponse
	Sources     []SourceCommissionResponse `json:"sources"`
	Total       float64                    `json:"total"`
	TotalPaid   float64                    `json:"total_paid"`
	TotalUnpaid float64                    `json:"total_unpaid"`
}

// ExpenseGroupResponse is the amount spent on one (name, type) pair
type ExpenseGroupResponse struct {
	Label string  `json:"label"`
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// ChannelTotalResponse is the amount spent through one payment channel.
// Untagged marks the expenses recorded without a payment channel.
type ChannelTotalResponse struct {
	Channel  string  `json:"channel"`
	Untagged bool    `json:"untagged,omitempty"`
	Total    float64 `json:"total"`
}

// PaymentChannelResponse splits revenue and expenses by payment channel
type PaymentChannelResponse struct {
	RangeResponse
	TotalRevenue      float64                `json:"total_revenue"`
	CardRevenue       float64                `json:"card_revenue"`
	CashRevenue       float64                `json:"cash_revenue"`
	ExpensesByChannel []ChannelTotalResponse `json:"expenses_by_channel"`
	TotalExpenses     float64                `json:"total_expenses"`
}

// EmployeePayrollResponse is the salary position of one employee
type EmployeePayrollResponse struct {
	EmployeeID string  `json:"employee_id"`
	Paid       float64 `json:"paid"`
	Unpaid     float64 `json:"unpaid"`
	Entries    int     `json:"entries"`
}

// PayrollResponse totals salaries over the window
type PayrollResponse struct {
	RangeResponse
	TotalPaid   float64                   `json:"total_paid"`
	TotalUnpaid float64                   `json:"total_unpaid"`
	Total       float64                   `json:"total"`
	Employees   []EmployeePayrollResponse `json:"employees"`
}

// DashboardResponse bundles the headline reports of one window
type DashboardResponse struct {
	Daily          DailyStatsResponse    `json:"daily"`
	Progress       ProgressResponse      `json:"progress"`
	TopServices    []TopServiceResponse  `json:"top_services"`
	TopRevenueDays []RevenueDayResponse  `json:"top_revenue_days"`
	Sources        []SourceCountResponse `json:"sources"`
}

// DiscountResponse describes a discount code
type DiscountResponse struct {
	Code        string  `json:"code"`
	Description string  `json:"description,omitempty"`
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	Status      string  `json:"status"`
	StartDate   string  `json:"start_date,omitempty"`
	EndDate     string  `json:"end_date,omitempty"`
}

// DiscountCheckResponse is the outcome of a discount code lookup
type DiscountCheckResponse struct {
	Code     string            `json:"code"`
	Result   string            `json:"result"`
	Discount *DiscountResponse `json:"discount,omitempty"`
}

// ===================== Mapping =====================

func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toDailyResponse(r report.DateRange, stats report.DailyStats, totalDiscount decimal.Decimal) DailyStatsResponse {
	days := make([]DailyEntryResponse, len(stats.Days))
	for i, d := range stats.Days {
		days[i] = toDailyEntry(d)
	}
	return DailyStatsResponse{
		RangeResponse: rangeResponse(r),
		Days:          days,
		TotalRevenue:  toFloat64(stats.TotalRevenue),
		TotalExpenses: toFloat64(stats.TotalExpenses),
		TotalProfit:   toFloat64(stats.TotalProfit),
		TotalDiscount: toFloat64(totalDiscount),
	}
}

func toDailyEntry(d report.DailyEntry) DailyEntryResponse {
	return DailyEntryResponse{
		Date:     valueobject.FormatDate(d.Date),
		Revenue:  toFloat64(d.Revenue),
		Expenses: toFloat64(d.Expenses),
		Profit:   toFloat64(d.Profit),
	}
}

func toTypedDailyResponse(r report.DateRange, stats report.TypedDailyStats) TypedDailyStatsResponse {
	days := make([]TypedDailyEntryResponse, len(stats.Days))
	for i, d := range stats.Days {
		days[i] = TypedDailyEntryResponse{
			DailyEntryResponse: toDailyEntry(d.DailyEntry),
			TypedRevenue:       toFloat64(d.TypedRevenue),
			OtherRevenue:       toFloat64(d.OtherRevenue),
			CardRevenue:        toFloat64(d.CardRevenue),
		}
	}
	return TypedDailyStatsResponse{
		RangeResponse:     rangeResponse(r),
		ServiceType:       stats.ServiceType,
		Days:              days,
		TotalRevenue:      toFloat64(stats.TotalRevenue),
		TotalExpenses:     toFloat64(stats.TotalExpenses),
		TotalProfit:       toFloat64(stats.TotalProfit),
		TotalTypedRevenue: toFloat64(stats.TotalTypedRevenue),
		TotalOtherRevenue: toFloat64(stats.TotalOtherRevenue),
		TotalCardRevenue:  toFloat64(stats.TotalCardRevenue),
	}
}

func toMetricChange(m report.MetricChange) MetricChangeResponse {
	out := MetricChangeResponse{
		Value:    toFloat64(m.Value),
		Previous: toFloat64(m.Previous),
	}
	if m.Percentage != nil {
		p := toFloat64(*m.Percentage)
		out.Percentage = &p
	}
	return out
}

func toProgressResponse(p report.ProgressStats) ProgressResponse {
	return ProgressResponse{
		Current:  rangeResponse(p.Current),
		Previous: rangeResponse(p.Previous),
		Revenue:  toMetricChange(p.Revenue),
		Expenses: toMetricChange(p.Expenses),
		Profit:   toMetricChange(p.Profit),
		Clients:  toMetricChange(p.Clients),
	}
}

func toTopServices(usages []report.ServiceUsage) []TopServiceResponse {
	out := make([]TopServiceResponse, len(usages))
	for i, u := range usages {
		out[i] = TopServiceResponse{
			Rank:      i + 1,
			ServiceID: u.ServiceID,
			Name:      u.Name,
			Price:     toFloat64(u.Price),
			Count:     u.Count,
		}
	}
	return out
}

func toRevenueDays(days []report.RevenueDay) []RevenueDayResponse {
	out := make([]RevenueDayResponse, len(days))
	for i, d := range days {
		bookings := make([]BookingRevenueResponse, len(d.Bookings))
		for j, b := range d.Bookings {
			bookings[j] = BookingRevenueResponse{BookingID: b.BookingID.String(), Revenue: toFloat64(b.Revenue)}
		}
		out[i] = RevenueDayResponse{
			Rank:     i + 1,
			Date:     valueobject.FormatDate(d.Date),
			Revenue:  toFloat64(d.Revenue),
			Bookings: bookings,
		}
	}
	return out
}

func toSourceCounts(counts []report.SourceCount) []SourceCountResponse {
	out := make([]SourceCountResponse, len(counts))
	for i, c := range counts {
		out[i] = SourceCountResponse{Source: c.Source, Count: c.Count}
	}
	return out
}
