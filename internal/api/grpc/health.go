package grpc

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/api/grpc/interceptor"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
)

// ConsoleService is the health service name probed for backend reachability.
// The empty service name reports the same status.
const ConsoleService = "ingride.console.v1.Console"

// HealthServer exposes grpc.health.v1.Health for the console. It reports
// NOT_SERVING until the first successful backend probe.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
}

func NewHealthServer() *HealthServer {
	s := grpc.NewServer(
		grpc.UnaryInterceptor(interceptor.NewLoggingInterceptor().Unary()),
	)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ConsoleService, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	// Register reflection service for grpcurl
	reflection.Register(s)

	return &HealthServer{server: s, health: hs}
}

// SetBackendHealthy records the result of the latest backend probe
func (h *HealthServer) SetBackendHealthy(healthy bool) {
	status := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ConsoleService, status)
}

// Serve blocks until the server stops
func (h *HealthServer) Serve(lis net.Listener) error {
	logger.Info("gRPC health server listening", "address", lis.Addr().String())
	return h.server.Serve(lis)
}

// GracefulStop flips every service to NOT_SERVING and drains open calls
func (h *HealthServer) GracefulStop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
