package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/jobs"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a scheduler for the named jobs (all of them when none
// are given). Specs are evaluated in loc, the business time zone.
func NewScheduler(jobRunner *jobs.JobRunner, loc *time.Location, names ...string) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if len(names) == 0 {
		names = jobs.JobNames
	}
	s.registerJobs(names)
	return s
}

// registerJobs registers the named jobs with the cron scheduler
func (s *Scheduler) registerJobs(names []string) {
	cfg := s.jobs.Config().Scheduler
	specs := map[string]string{
		jobs.JobMarkOverdueRentals: cfg.MarkOverdueRentals, // nightly overdue sweep
		jobs.JobSendDailyDigest:    cfg.SendDailyDigest,    // morning digest for staff
		jobs.JobHealthProbe:        cfg.HealthProbe,
	}

	for _, name := range names {
		run, ok := s.jobs.Job(name)
		if !ok {
			logger.Error("Unknown job", "job", name)
			continue
		}
		if _, err := s.cron.AddFunc(specs[name], run); err != nil {
			logger.Error("Failed to register job", "job", name, "spec", specs[name], "error", err)
			continue
		}
		logger.Debug("Registered job", "job", name, "spec", specs[name])
	}

	logger.Info("Cron jobs registered", "count", len(s.cron.Entries()))
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// EntryCount returns the number of registered jobs
func (s *Scheduler) EntryCount() int {
	return len(s.cron.Entries())
}
