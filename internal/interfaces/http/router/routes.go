package router

import (
	"github.com/gin-gonic/gin"

	"github.com/spa/backend/internal/interfaces/http/handler"
)

// ReportRoutes mounts the reporting endpoints under /reports. Extra
// middleware, such as a rate limiter, guards only the workbook export.
func ReportRoutes(h *handler.ReportHandler, exportMiddleware ...gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("reports", "/reports")
	g.GET("/daily", h.GetDailyStats).
		GET("/typed-daily", h.GetTypedDailyStats).
		GET("/progress", h.GetProgress).
		GET("/top-services", h.GetTopServices).
		GET("/top-revenue-days", h.GetTopRevenueDays).
		GET("/sources", h.GetSources).
		GET("/commissions", h.GetCommissions).
		GET("/payment-channels", h.GetPaymentChannels).
		GET("/payroll", h.GetPayroll).
		GET("/dashboard", h.GetDashboard).
		GET("/export", append(exportMiddleware, h.ExportWorkbook)...)

	g.Group("expenses", "/expenses").
		GET("/grouped", h.GetGroupedExpenses)

	return g
}

// DiscountRoutes mounts discount lookups under /discounts.
func DiscountRoutes(h *handler.ReportHandler) *DomainGroup {
	return NewDomainGroup("discounts", "/discounts").
		GET("/check", h.CheckDiscount)
}

// SystemRoutes mounts the informational and warm-up endpoints under /system.
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo).
		GET("/ping", h.Ping).
		GET("/warmup", h.GetWarmupStatus).
		POST("/warmup", h.TriggerWarmup)
}
