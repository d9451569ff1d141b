package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "github.com/abrilheiland03/alquilerDeAutos-sub000/internal/api/grpc"
	httpapi "github.com/abrilheiland03/alquilerDeAutos-sub000/internal/api/http"
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
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting IngRide console server...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetHTTPAddress(), "grpc_address", cfg.GetGRPCAddress())

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to load business time zone: %v", err)
	}
	clock := utils.NewClock(loc)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Backend
	conn, err := backend.Open(cfg, tokenManager, "ingride-console")
	if err != nil {
		logger.Error("Failed to initialize backend", "type", cfg.Backend.Type, "error", err)
		log.Fatalf("Failed to initialize backend: %v", err)
	}
	defer conn.Close()

	// Initialize Services and handlers
	availabilitySvc := service.NewAvailabilityService(conn.Backend.Vehicles(), conn.Backend.Rentals(), clock)
	consoleHandler := httpapi.NewConsoleHandler(conn.Backend, availabilitySvc, clock)
	router := httpapi.NewRouter(consoleHandler, tokenManager)

	httpServer := &http.Server{
		Addr:              cfg.GetHTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP console API listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	// Set up gRPC health server
	deps := &jobs.Dependencies{Backend: conn.Backend, Clock: clock}
	var healthServer *grpcapi.HealthServer
	if addr := cfg.GetGRPCAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}
		healthServer = grpcapi.NewHealthServer()
		deps.Health = healthServer
		go func() {
			if err := healthServer.Serve(lis); err != nil {
				logger.Error("Failed to serve gRPC", "error", err)
			}
		}()
	}

	// The server process only probes the backend; batch jobs run in cmd/cronjob
	jobRunner := jobs.NewJobRunner(deps, cfg)
	jobRunner.HealthProbe()
	probeScheduler := scheduler.NewScheduler(jobRunner, loc, jobs.JobHealthProbe)
	probeScheduler.Start()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down console server...")
	probeScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if healthServer != nil {
		healthServer.GracefulStop()
	}
	logger.Info("Console server stopped. Goodbye!")
}
