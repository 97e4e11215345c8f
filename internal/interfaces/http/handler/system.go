package handler

import (
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spa/backend/internal/infrastructure/logger"
	"github.com/spa/backend/internal/infrastructure/scheduler"
	"github.com/spa/backend/internal/interfaces/http/dto"
)

// WarmupController is the part of the nightly cache warm-up exposed over HTTP
type WarmupController interface {
	TriggerManualRun() error
	Status() scheduler.WarmupStatus
}

// SystemHandler handles system-related API endpoints
// @name HandlerSystemInfoResponse
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	warmup    WarmupController
}

// SystemOption configures a SystemHandler
type SystemOption func(*SystemHandler)

// WithWarmup exposes the cache warm-up under /system/warmup
func WithWarmup(w WarmupController) SystemOption {
	return func(h *SystemHandler) {
		h.warmup = w
	}
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string, opts ...SystemOption) *SystemHandler {
	h := &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name      string `json:"name" example:"spa-backend"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @ID           getSystemSystemInfo
// @Summary      Get system information
// @Description  Returns basic system information including version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=SystemInfoResponse}
// @Failure      500 {object} dto.Response
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// PingResponse represents the ping response
// @name HandlerPingResponse
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Description  Simple ping endpoint to check if the API is responsive
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=PingResponse}
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	response := PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// WarmupStatusResponse reports the cache warm-up schedule
// @name HandlerWarmupStatusResponse
type WarmupStatusResponse struct {
	Enabled bool `json:"enabled"`
	scheduler.WarmupStatus
}

// GetWarmupStatus godoc
// @ID           getSystemWarmup
// @Summary      Get cache warm-up status
// @Description  Returns the last and next warm-up runs and the job counters. Enabled is false when the warm-up is not configured
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=WarmupStatusResponse}
// @Router       /system/warmup [get]
func (h *SystemHandler) GetWarmupStatus(c *gin.Context) {
	if h.warmup == nil {
		h.Success(c, WarmupStatusResponse{})
		return
	}
	h.Success(c, WarmupStatusResponse{Enabled: true, WarmupStatus: h.warmup.Status()})
}

// TriggerWarmup godoc
// @ID           triggerSystemWarmup
// @Summary      Run the cache warm-up now
// @Description  Queues the warm-up of yesterday, the last seven days and the previous month without waiting for the schedule
// @Tags         system
// @Produce      json
// @Success      202 {object} dto.Response{data=WarmupStatusResponse}
// @Failure      503 {object} dto.Response
// @Router       /system/warmup [post]
func (h *SystemHandler) TriggerWarmup(c *gin.Context) {
	if h.warmup == nil {
		h.ErrorWithCode(c, dto.ErrCodeUnavailable, "Report warm-up is not enabled")
		return
	}

	if err := h.warmup.TriggerManualRun(); err != nil {
		logger.GetGinLogger(c).Warn("Manual report warm-up failed", zap.Error(err))
		switch {
		case errors.Is(err, scheduler.ErrSchedulerNotRunning):
			h.ErrorWithCode(c, dto.ErrCodeUnavailable, "Report warm-up is not running")
		case errors.Is(err, scheduler.ErrJobQueueFull):
			h.ErrorWithCode(c, dto.ErrCodeUnavailable, "Report warm-up queue is full, retry later")
		default:
			h.InternalError(c, "An unexpected error occurred")
		}
		return
	}

	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(WarmupStatusResponse{Enabled: true, WarmupStatus: h.warmup.Status()}))
}
