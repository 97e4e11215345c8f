package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	reportapp "github.com/spa/backend/internal/application/report"
	"github.com/spa/backend/internal/domain/report"
	"github.com/spa/backend/internal/domain/shared/valueobject"
	"github.com/spa/backend/internal/interfaces/http/middleware"
)

// ReportHandler handles report-related API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ===================== Request DTOs =====================

// RangeQuery selects the reporting window
// @Description Either explicit DD-MM-YYYY bounds or a named selector
type RangeQuery struct {
	StartDate string `form:"start_date" example:"01-06-2024"`
	EndDate   string `form:"end_date" example:"30-06-2024"`
	Selector  string `form:"selector" example:"month"`
	Year      int    `form:"year" binding:"omitempty,min=1,max=9999" example:"2024"`
	Month     int    `form:"month" binding:"omitempty,min=1,max=12" example:"6"`
	Week      int    `form:"week" binding:"omitempty,min=1,max=53" example:"23"`
}

// TopServicesQuery caps the service ranking. topServicesLimit is accepted
// as an alias of limit; limit wins when both are set.
type TopServicesQuery struct {
	RangeQuery
	Limit      int `form:"limit" binding:"omitempty,min=1,max=100" example:"5"`
	LimitAlias int `form:"topServicesLimit" binding:"omitempty,min=1,max=100" swaggerignore:"true"`
}

// TopRevenueDaysQuery caps the revenue day ranking. topRevenuesLimit is
// accepted as an alias of limit; limit wins when both are set.
type TopRevenueDaysQuery struct {
	RangeQuery
	Limit      int `form:"limit" binding:"omitempty,min=1,max=100" example:"3"`
	LimitAlias int `form:"topRevenuesLimit" binding:"omitempty,min=1,max=100" swaggerignore:"true"`
}

// TypedDailyQuery picks the distinguished service type
type TypedDailyQuery struct {
	RangeQuery
	ServiceType string `form:"service_type" binding:"omitempty,max=64" example:"Beldi"`
}

// DashboardQuery caps both rankings on the dashboard. topServicesLimit and
// topRevenuesLimit are accepted as aliases of the snake_case names.
type DashboardQuery struct {
	RangeQuery
	ServicesLimit      int `form:"services_limit" binding:"omitempty,min=1,max=100" example:"5"`
	DaysLimit          int `form:"days_limit" binding:"omitempty,min=1,max=100" example:"3"`
	ServicesLimitAlias int `form:"topServicesLimit" binding:"omitempty,min=1,max=100" swaggerignore:"true"`
	DaysLimitAlias     int `form:"topRevenuesLimit" binding:"omitempty,min=1,max=100" swaggerignore:"true"`
}

// firstSet returns the first positive value, or 0 so the service default applies.
func firstSet(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// DiscountCheckQuery names the code to check
type DiscountCheckQuery struct {
	Code string `form:"code" binding:"required,max=64" example:"SUMMER10"`
}

// rangeQuery is satisfied by every query embedding RangeQuery.
type rangeQuery interface {
	rangeQuery() RangeQuery
}

func (q RangeQuery) rangeQuery() RangeQuery { return q }

func (q RangeQuery) filter() reportapp.RangeFilter {
	return reportapp.RangeFilter{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Selector:  q.Selector,
		Year:      q.Year,
		Month:     q.Month,
		Week:      q.Week,
	}
}

// bindRange binds the query into q and resolves its window. It writes the
// error response itself and reports false when the request cannot proceed.
func (h *ReportHandler) bindRange(c *gin.Context, q rangeQuery) (report.DateRange, bool) {
	if err := c.ShouldBindQuery(q); err != nil {
		middleware.HandleValidationError(c, err)
		return report.DateRange{}, false
	}
	r, err := h.reportService.ResolveRange(q.rangeQuery().filter())
	if err != nil {
		h.HandleError(c, err)
		return report.DateRange{}, false
	}
	return r, true
}

// GetDailyStats godoc
// @ID           getReportDailyStats
// @Summary      Get daily statistics
// @Description  Per-day revenue, expenses and profit over the range, with totals and total discounts
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "Start date (DD-MM-YYYY)"
// @Param        end_date query string false "End date (DD-MM-YYYY)"
// @Param        selector query string false "Range selector" Enums(explicit, week, month, year, today)
// @Param        year query int false "Year for week/month/year selectors"
// @Param        month query int false "Month for the month selector"
// @Param        week query int false "Week number for the week selector"
// @Success      200 {object} dto.Response{data=reportapp.DailyStatsResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /reports/daily [get]
func (h *ReportHandler) GetDailyStats(c *gin.Context) {
	var q RangeQuery
	r, ok := h.bindRange(c, &q)
	if !ok {
		return
	}

	stats, err := h.reportService.DailyStats(c.Request.Context(), r)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// GetTypedDailyStats godoc
// @ID           getReportTypedDailyStats
// @Summary      Get daily statistics for one service type
// @Description  Daily stats restricted to bookings containing the given service type (Beldi by default)
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "Start date (DD-MM-YYYY)"
// @Param        end_date query string false "End date (DD-MM-YYYY)"
// @Param        selector query string false "Range selector" Enums(explicit, week, month, year, today)
// @Param        service_type query string false "Service type, case-insensitive"
// @Success      200 {object} dto.Response{data=reportapp.TypedDailyStatsResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /reports/typed-daily [get]
func (h *ReportHandler) GetTypedDailyStats(c *gin.Context) {
	var q TypedDailyQuery
	r, ok := h.bindRange(c, &q)
	if !ok {
		return
	}

	stats, err := h.reportService.TypedDailyStats(c.Request.Context(), r, q.ServiceType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// GetProgress godoc
// @ID           getReportProgress
// @Summary      Compare a range with the previous month
// @Description  Revenue, expenses, profit and client counts against the same range one month earlier
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "Start date (DD-MM-YYYY)"
// @Param        end_date query string false "End date (DD-MM-YYYY)"
// @Param        selector query string false "Range selector" Enums(explicit, week, month, year, today)
// @Success      200 {object} dto.Response{data=reportapp.ProgressResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /reports/progress [get]
func (h *ReportHandler) GetProgress(c *gin.Context) {
	var q RangeQuery
	r, ok := h.bindRange(c, &q)
	if !ok {
		return
	}

	progress, err := h.reportService.Progress(c.Request.Context(), r)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, progress)
}

// GetTopServices godoc
// @ID           getReportTopServices
// @Summary      Get most booked services
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "Start date (DD-MM-YYYY)"
// @Param        end_date query string false "End date (DD-MM-YYYY)"
// @Param        selector query string false "Range selector" Enums(explicit, week, month, year, today)
// @Param        limit query int false "Number of services" minimum(1) maximum(100)
// @Param        topServicesLimit query int false "Alias of limit" minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]reportapp.TopServiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /reports/top-services [get]
func (h *ReportHandler) GetTopServices(c *gin.Context) {
	var q TopServicesQuery
	r, ok := h.bindRange(c, &q)
	if !ok {
		return
	}

	services, err := h.reportService.TopServices(c.Request.Context(), r, firstSet(q.Limit, q.LimitAlias))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, services)
}

// GetTopRevenueDays godoc
// @ID           getReportTopRevenueDays
// @Summary      Get highest revenue days
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "Start date (DD-MM-YYYY)"
// @Param        end_date query string false "End date (DD-MM-YYYY)"
// @Param        selector query string false "Range selector" Enums(explicit, week, month, year, today)
// @Param        limit query int false "Number of days" minimum(1) maximum(100)
// @Param        topRevenuesLimit query int false "Alias of limit" minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]reportapp.RevenueDayResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /reports/top-revenue-days [get]
func (h *ReportHandler) GetTopRevenueDays(c *gin.Context) {
	var q TopRevenueDaysQuery
	r, ok := h.bindRange(c, &q)
	if !ok {
		return
	}

	days, err := h.reportService.TopRevenueDays(c.Request.Context(), r, firstSet(q.Limit, q.LimitAlias))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, days)
}

// GetSources godoc
// @ID           getReportSources
// @Summary      Get booking counts per source
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "Start date (DD-MM-YYYY)"
// @Param        end_date query string false "End date (DD-MM-YYYY)"
// @Param        selector query string false "Range selector" Enums(explicit, week, month, year, today)
// @Success      200 {object} dto.Response{data=[]reportapp.SourceCountResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /reports/sources [get]
func (h *ReportHandler) GetSources(c *gin.Context) {
	var q RangeQuery
	r, ok := h.bindRange(c, &q)
	if !ok {
		return
	}

	sources, err := h.reportService.Sources(c.Request.Context(), r)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sources)
}

// GetCommissions godoc
// @ID           getReportCommissions
// @Summary      Get commissions per source
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "Start date (DD-MM-YYYY)"
// @Param        end_date query string false "End date (DD-MM-YYYY)"
// @Param        selector query string false "Range selector" Enums(explicit, week, month, year, today)
// @Success      200 {object} dto.Response{data=reportapp.CommissionReportResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /reports/commissions [get]
func (h *ReportHandler) GetCommissions(c *gin.Context) {
	var q RangeQuery
	r, ok := h.bindRange(c, &q)
	if !ok {
		return
	}

	commissions, err := h.reportService.Commissions(c.Request.Context(), r)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, commissions)
}

// GetGroupedExpenses godoc
// @ID           getReportGroupedExpenses
// @Summary      Get expenses grouped by label
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "Start date (DD-MM-YYYY)"
// @Param        end_date query string false "End date (DD-MM-YYYY)"
// @Param        selector query string false "Range selector" Enums(explicit, week, month, year, today)
// @Success      200 {object} dto.Response{data=[]reportapp.ExpenseGroupResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /reports/expenses/grouped [get]
func (h *ReportHandler) GetGroupedExpenses(c *gin.Context) {
	var q RangeQuery
	r, ok := h.bindRange(c, &q)
	if !ok {
		return
	}

	groups, err := h.reportService.GroupedExpenses(c.Request.Context(), r)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, groups)
}

// GetPaymentChannels godoc
// @ID           getReportPaymentChannels
// @Summary      Get revenue and expenses per payment channel
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "Start date (DD-MM-YYYY)"
// @Param        end_date query string false "End date (DD-MM-YYYY)"
// @Param        selector query string false "Range selector" Enums(explicit, week, month, year, today)
// @Success      200 {object} dto.Response{data=reportapp.PaymentChannelResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /reports/payment-channels [get]
func (h *ReportHandler) GetPaymentChannels(c *gin.Context) {
	var q RangeQuery
	r, ok := h.bindRange(c, &q)
	if !ok {
		return
	}

	channels, err := h.reportService.PaymentChannels(c.Request.Context(), r)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, channels)
}

// GetPayroll godoc
// @ID           getReportPayroll
// @Summary      Get salaries paid per employee
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "Start date (DD-MM-YYYY)"
// @Param        end_date query string false "End date (DD-MM-YYYY)"
// @Param        selector query string false "Range selector" Enums(explicit, week, month, year, today)
// @Success      200 {object} dto.Response{data=reportapp.PayrollResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /reports/payroll [get]
func (h *ReportHandler) GetPayroll(c *gin.Context) {
	var q RangeQuery
	r, ok := h.bindRange(c, &q)
	if !ok {
		return
	}

	payroll, err := h.reportService.Payroll(c.Request.Context(), r)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payroll)
}

// GetDashboard godoc
// @ID           getReportDashboard
// @Summary      Get the dashboard bundle
// @Description  Daily stats, progress, rankings and sources for one range in a single call
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "Start date (DD-MM-YYYY)"
// @Param        end_date query string false "End date (DD-MM-YYYY)"
// @Param        selector query string false "Range selector" Enums(explicit, week, month, year, today)
// @Param        services_limit query int false "Number of top services" minimum(1) maximum(100)
// @Param        days_limit query int false "Number of top revenue days" minimum(1) maximum(100)
// @Param        topServicesLimit query int false "Alias of services_limit" minimum(1) maximum(100)
// @Param        topRevenuesLimit query int false "Alias of days_limit" minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=reportapp.DashboardResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /reports/dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	var q DashboardQuery
	r, ok := h.bindRange(c, &q)
	if !ok {
		return
	}

	dashboard, err := h.reportService.Dashboard(c.Request.Context(), r,
		firstSet(q.ServicesLimit, q.ServicesLimitAlias), firstSet(q.DaysLimit, q.DaysLimitAlias))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dashboard)
}

// ExportWorkbook godoc
// @ID           exportReportWorkbook
// @Summary      Export reports as an XLSX workbook
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        start_date query string false "Start date (DD-MM-YYYY)"
// @Param        end_date query string false "End date (DD-MM-YYYY)"
// @Param        selector query string false "Range selector" Enums(explicit, week, month, year, today)
// @Success      200 {file} file
// @Failure      400 {object} dto.Response
// @Failure      429 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /reports/export [get]
func (h *ReportHandler) ExportWorkbook(c *gin.Context) {
	var q RangeQuery
	r, ok := h.bindRange(c, &q)
	if !ok {
		return
	}

	data, err := h.reportService.ExportWorkbook(c.Request.Context(), r)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(r)))
	c.Data(http.StatusOK, reportapp.XLSXContentType, data)
}

func exportFilename(r report.DateRange) string {
	return fmt.Sprintf("spa-report_%s_%s.xlsx", valueobject.FormatDate(r.Start), valueobject.FormatDate(r.End))
}

// CheckDiscount godoc
// @ID           checkDiscount
// @Summary      Check whether a discount code can be applied today
// @Description  Result is VALID_DISCOUNT, INVALID_DISCOUNT or DISCOUNT_NOT_FOUND
// @Tags         discounts
// @Produce      json
// @Param        code query string true "Discount code"
// @Success      200 {object} dto.Response{data=reportapp.DiscountCheckResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /discounts/check [get]
func (h *ReportHandler) CheckDiscount(c *gin.Context) {
	var q DiscountCheckQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.reportService.CheckDiscount(c.Request.Context(), q.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
