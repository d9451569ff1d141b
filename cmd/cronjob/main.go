package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/config"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/jobs"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/repository/backend"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/scheduler"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/security"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/service"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ("+strings.Join(jobs.JobNames, ", ")+", all)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting IngRide cronjob runner...", "log_level", cfg.Log.Level, "backend", cfg.Backend.Type)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to load business time zone: %v", err)
	}

	// Initialize Backend
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)
	conn, err := backend.Open(cfg, tokenManager, "ingride-cronjob")
	if err != nil {
		logger.Error("Failed to initialize backend", "type", cfg.Backend.Type, "error", err)
		log.Fatalf("Failed to initialize backend: %v", err)
	}
	defer conn.Close()

	// Initialize Email Service
	emailService := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(&jobs.Dependencies{
		Backend: conn.Backend,
		Overdue: conn.Overdue,
		Email:   emailService,
		Clock:   utils.NewClock(loc),
	}, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner, loc, jobs.JobMarkOverdueRentals, jobs.JobSendDailyDigest)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	if jobName == "all" {
		jobRunner.RunAllDailyJobs()
		return
	}
	run, ok := jobRunner.Job(jobName)
	if !ok {
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		for _, name := range jobs.JobNames {
			fmt.Printf("  - %s\n", name)
		}
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
	run()
}
