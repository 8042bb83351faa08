package health

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Service is the name reported for the review API besides the overall "".
const Service = "submittal-review"

// Server exposes the standard gRPC health protocol for orchestrators.
type Server struct {
	grpc   *grpc.Server
	hs     *health.Server
	lis    net.Listener
	logger *slog.Logger
}

// Listen binds addr and registers the health and reflection services. The
// initial status is NOT_SERVING until SetServing(true).
func Listen(addr string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	s := &Server{grpc: gs, hs: hs, lis: lis, logger: logger}
	s.SetServing(false)
	return s, nil
}

func (s *Server) Addr() net.Addr { return s.lis.Addr() }

// Serve blocks until Stop is called.
func (s *Server) Serve() error {
	s.logger.Info("health.grpc.serving", "addr", s.lis.Addr().String())
	if err := s.grpc.Serve(s.lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

// SetServing flips both the overall and the named service status.
func (s *Server) SetServing(ok bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.hs.SetServingStatus("", status)
	s.hs.SetServingStatus(Service, status)
}

// Stop marks the server as shutting down and drains in-flight RPCs.
func (s *Server) Stop() {
	s.hs.Shutdown()
	s.grpc.GracefulStop()
	s.logger.Info("health.grpc.stopped")
}
