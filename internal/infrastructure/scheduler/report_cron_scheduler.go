package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spa/backend/internal/domain/report"
	"github.com/spa/backend/internal/domain/shared/valueobject"
)

// cronTickerInterval is the interval at which the cron scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// ReportCronSchedulerConfig holds configuration for the nightly cache warm-up
type ReportCronSchedulerConfig struct {
	// CronHour is the hour (0-23) to run the warm-up
	CronHour int
	// CronMinute is the minute (0-59) to run the warm-up
	CronMinute int
	// JobTimeout is the maximum time a single report job can run
	JobTimeout time.Duration
	// MaxConcurrentJobs is the maximum number of concurrent report jobs
	MaxConcurrentJobs int
	// RetryAttempts is the number of retry attempts for failed jobs
	RetryAttempts int
	// RetryDelay is the delay between retries
	RetryDelay time.Duration
}

// DefaultReportCronSchedulerConfig returns default cron scheduler configuration
// Defaults to running at 2:00 AM daily
func DefaultReportCronSchedulerConfig() ReportCronSchedulerConfig {
	return ReportCronSchedulerConfig{
		CronHour:          2,
		CronMinute:        0,
		JobTimeout:        5 * time.Minute,
		MaxConcurrentJobs: 3,
		RetryAttempts:     3,
		RetryDelay:        time.Minute,
	}
}

// ParseCronSchedule parses a cron expression "minute hour * * *" to extract hour and minute
// Returns defaults (2:00) if the expression is empty
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	hour, minute = 2, 0

	parts := strings.Fields(cronExpr)
	if len(parts) < 2 {
		return hour, minute, nil
	}

	if parts[0] != "*" {
		if minute, err = strconv.Atoi(parts[0]); err != nil {
			return 2, 0, fmt.Errorf("%w: minute %q", ErrInvalidConfig, parts[0])
		}
	}
	if parts[1] != "*" {
		if hour, err = strconv.Atoi(parts[1]); err != nil {
			return 2, 0, fmt.Errorf("%w: hour %q", ErrInvalidConfig, parts[1])
		}
	}

	if minute < 0 || minute > 59 {
		return 2, 0, fmt.Errorf("%w: minute must be 0-59, got %d", ErrInvalidConfig, minute)
	}
	if hour < 0 || hour > 23 {
		return 2, 0, fmt.Errorf("%w: hour must be 0-23, got %d", ErrInvalidConfig, hour)
	}

	return hour, minute, nil
}

// WarmupRanges returns the settled ranges precomputed at now: yesterday,
// the seven days ending yesterday and the previous calendar month.
func WarmupRanges(now time.Time) []report.DateRange {
	today := valueobject.StartOfDay(now)
	yesterday := today.AddDate(0, 0, -1)
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	return []report.DateRange{
		report.SingleDay(yesterday),
		{Start: yesterday.AddDate(0, 0, -6), End: yesterday},
		{Start: firstOfMonth.AddDate(0, -1, 0), End: firstOfMonth.AddDate(0, 0, -1)},
	}
}

func (c ReportCronSchedulerConfig) pool() SchedulerConfig {
	return SchedulerConfig{
		MaxConcurrentJobs: c.MaxConcurrentJobs,
		JobTimeout:        c.JobTimeout,
		RetryAttempts:     c.RetryAttempts,
		RetryDelay:        c.RetryDelay,
	}
}

// WarmupStatus is a snapshot of the warm-up schedule and its job pool
type WarmupStatus struct {
	Running   bool       `json:"running"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
	Jobs      JobStats   `json:"jobs"`
}

// ReportCronScheduler warms the report cache once a day
type ReportCronScheduler struct {
	config    ReportCronSchedulerConfig
	scheduler *Scheduler
	logger    *zap.Logger
	now       func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewReportCronScheduler creates a new cron-based report scheduler
func NewReportCronScheduler(config ReportCronSchedulerConfig, executor JobExecutor, logger *zap.Logger) *ReportCronScheduler {
	return &ReportCronScheduler{
		config:    config,
		scheduler: NewScheduler(config.pool(), executor, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// Start starts the cron scheduler
func (s *ReportCronScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	if err := s.scheduler.Start(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Report cron scheduler started",
		zap.Int("cron_hour", s.config.CronHour),
		zap.Int("cron_minute", s.config.CronMinute),
		zap.Timep("next_run_at", s.GetNextRunAt()),
	)

	return nil
}

// Stop stops the cron scheduler
func (s *ReportCronScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if err := s.scheduler.Stop(ctx); err != nil {
			s.logger.Warn("Error stopping underlying scheduler", zap.Error(err))
		}
		s.logger.Info("Report cron scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Report cron scheduler stop timed out")
		return ctx.Err()
	}
}

// cronLoop runs the main cron loop
func (s *ReportCronScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				if err := s.runWarmup(); err != nil {
					s.logger.Error("Report warm-up incomplete", zap.Error(err))
				}
				s.calculateNextRunTime()
			}
		}
	}
}

// shouldRun checks if the cron should run at the given time
func (s *ReportCronScheduler) shouldRun(now time.Time) bool {
	return now.Hour() == s.config.CronHour && now.Minute() == s.config.CronMinute
}

// calculateNextRunTime calculates the next run time
func (s *ReportCronScheduler) calculateNextRunTime() {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.CronHour, s.config.CronMinute, 0, 0, now.Location())

	// Already past today's slot: schedule for tomorrow
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// runWarmup submits every report type over every warm-up range. Ranges
// that could not be queued are reported together.
func (s *ReportCronScheduler) runWarmup() error {
	now := s.now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	var errs []error
	submitted := 0
	for _, r := range WarmupRanges(now) {
		if err := s.scheduler.ScheduleReports(r); err != nil {
			errs = append(errs, fmt.Errorf("schedule %s: %w", r, err))
			continue
		}
		submitted++
	}

	s.logger.Info("Report warm-up scheduled",
		zap.Int("ranges", submitted),
		zap.Int("report_types", len(AllReportTypes())),
	)
	return errors.Join(errs...)
}

// TriggerManualRun schedules a warm-up immediately
func (s *ReportCronScheduler) TriggerManualRun() error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return ErrSchedulerNotRunning
	}

	return s.runWarmup()
}

// GetNextRunAt returns when the next scheduled run will occur
func (s *ReportCronScheduler) GetNextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

// GetLastRunAt returns when the last run occurred
func (s *ReportCronScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}

// Status returns the schedule and job counters.
func (s *ReportCronScheduler) Status() WarmupStatus {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()

	return WarmupStatus{
		Running:   running,
		LastRunAt: s.GetLastRunAt(),
		NextRunAt: s.GetNextRunAt(),
		Jobs:      s.scheduler.Stats(),
	}
}
