package jobs

import (
	"context"
	"time"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/config"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/repository"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/service"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

const jobTimeout = 2 * time.Minute

// Job names, shared by the scheduler and the cronjob -run-once flag
const (
	JobMarkOverdueRentals = "mark-overdue-rentals"
	JobSendDailyDigest    = "send-daily-digest"
	JobHealthProbe        = "health-probe"
)

var JobNames = []string{JobMarkOverdueRentals, JobSendDailyDigest, JobHealthProbe}

// HealthReporter receives the result of each backend probe
type HealthReporter interface {
	SetBackendHealthy(healthy bool)
}

// Dependencies holds everything the jobs talk to. Overdue and Health are optional:
// only the direct database backend marks rentals overdue, and only the server
// process exposes a health endpoint.
type Dependencies struct {
	Backend repository.Backend
	Overdue repository.OverdueMarker
	Email   service.EmailService
	Health  HealthReporter
	Clock   utils.Clock
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	deps   *Dependencies
	config *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(deps *Dependencies, cfg *config.Config) *JobRunner {
	return &JobRunner{
		deps:   deps,
		config: cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// Job returns the scheduled entry point for a job name
func (jr *JobRunner) Job(name string) (func(), bool) {
	switch name {
	case JobMarkOverdueRentals:
		return jr.MarkOverdueRentals, true
	case JobSendDailyDigest:
		return jr.SendDailyDigest, true
	case JobHealthProbe:
		return jr.HealthProbe, true
	default:
		return nil, false
	}
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	ctx = logger.NewContext(ctx, logger.WithComponent("jobs").With("job", jobName))

	logger.Info("Starting job", "job", jobName)
	start := time.Now()
	if err := jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return
	}
	logger.Info("Job completed", "job", jobName, "duration_ms", time.Since(start).Milliseconds())
}

// RunAllDailyJobs runs every job once (for manual execution)
func (jr *JobRunner) RunAllDailyJobs() {
	jr.MarkOverdueRentals()
	jr.SendDailyDigest()
	jr.HealthProbe()
}
