// Package scheduler precomputes reports over settled ranges so the report
// cache is warm before the first request of the day.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spa/backend/internal/domain/report"
)

var (
	// ErrSchedulerNotRunning is returned when work is submitted to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")
	// ErrInvalidReportType is returned by executors for report types they cannot warm
	ErrInvalidReportType = errors.New("invalid report type")
	// ErrInvalidConfig is returned for an unusable warm-up schedule
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// ReportType names a report the scheduler can precompute
type ReportType string

const (
	ReportTypeDaily           ReportType = "DAILY"
	ReportTypeTypedDaily      ReportType = "TYPED_DAILY"
	ReportTypeProgress        ReportType = "PROGRESS"
	ReportTypeTopServices     ReportType = "TOP_SERVICES"
	ReportTypeTopRevenueDays  ReportType = "TOP_REVENUE_DAYS"
	ReportTypeSources         ReportType = "SOURCES"
	ReportTypeCommissions     ReportType = "COMMISSIONS"
	ReportTypeGroupedExpenses ReportType = "GROUPED_EXPENSES"
	ReportTypePaymentChannels ReportType = "PAYMENT_CHANNELS"
	ReportTypePayroll         ReportType = "PAYROLL"
)

// AllReportTypes returns all available report types
func AllReportTypes() []ReportType {
	return []ReportType{
		ReportTypeDaily,
		ReportTypeTypedDaily,
		ReportTypeProgress,
		ReportTypeTopServices,
		ReportTypeTopRevenueDays,
		ReportTypeSources,
		ReportTypeCommissions,
		ReportTypeGroupedExpenses,
		ReportTypePaymentChannels,
		ReportTypePayroll,
	}
}

// Job represents a scheduled report job
type Job struct {
	ID          uuid.UUID
	ReportType  ReportType
	Range       report.DateRange
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewJob creates a new job instance
func NewJob(reportType ReportType, r report.DateRange, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		ReportType: reportType,
		Range:      r,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry schedules the job for retry
func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.Error = ""
}

// JobExecutor is the interface for executing report jobs
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// SchedulerConfig sizes the worker pool
type SchedulerConfig struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// JobStats counts finished jobs since the scheduler was created. A job that
// fails and is retried counts once per failed attempt.
type JobStats struct {
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Queued    int   `json:"queued"`
}

// Scheduler runs report jobs on a fixed pool of workers
type Scheduler struct {
	config   SchedulerConfig
	executor JobExecutor
	logger   *zap.Logger

	jobs      chan *Job
	completed atomic.Int64
	failed    atomic.Int64
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config SchedulerConfig, executor JobExecutor, logger *zap.Logger) *Scheduler {
	if config.MaxConcurrentJobs <= 0 {
		config.MaxConcurrentJobs = 1
	}
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		jobs:     make(chan *Job, 100),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	// Start worker pool
	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Report scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop cancels the workers and waits for them until ctx is done. Jobs
// still queued are dropped.
func (s *Scheduler) Stop(ctx context.Context) error {
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
		s.logger.Info("Report scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Report scheduler stop timed out")
		return ctx.Err()
	}
}

// SubmitJob submits a job for execution
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("report_type", string(job.ReportType)),
			zap.Stringer("range", job.Range),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// worker processes jobs from the queue
func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.processJob(ctx, job, workerID)
		}
	}
}

// processJob executes a single job
func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	// Not due yet: put it back at the end of the queue
	if job.NextRetryAt != nil && time.Now().Before(*job.NextRetryAt) {
		s.requeue(job)
		return
	}

	job.Start()

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	err := s.executor.Execute(jobCtx, job)
	if err != nil {
		s.failed.Add(1)
		job.Fail(err.Error())
		s.logger.Error("Job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("report_type", string(job.ReportType)),
			zap.Stringer("range", job.Range),
			zap.Error(err),
		)

		if job.ShouldRetry() {
			job.ScheduleRetry(s.config.RetryDelay)
			s.logger.Info("Job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries),
			)
			s.requeue(job)
		}
		return
	}

	job.Complete()
	s.completed.Add(1)
	s.logger.Debug("Job completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("report_type", string(job.ReportType)),
		zap.Stringer("range", job.Range),
	)
}

func (s *Scheduler) requeue(job *Job) {
	select {
	case s.jobs <- job:
	default:
		s.logger.Warn("Failed to re-queue job for retry",
			zap.String("job_id", job.ID.String()),
		)
	}
}

// ScheduleReports submits one job per report type over r.
func (s *Scheduler) ScheduleReports(r report.DateRange) error {
	for _, reportType := range AllReportTypes() {
		if err := s.SubmitJob(NewJob(reportType, r, s.config.RetryAttempts)); err != nil {
			return err
		}
	}
	return nil
}

// Stats reports finished job counts and the current queue depth.
func (s *Scheduler) Stats() JobStats {
	return JobStats{
		Completed: s.completed.Load(),
		Failed:    s.failed.Load(),
		Queued:    len(s.jobs),
	}
}
