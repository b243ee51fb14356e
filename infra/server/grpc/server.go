// Package grpc hosts the dispatch core's gRPC transport: standard health
// checking and reflection only (§4.8 — the control-plane API itself is the
// HTTP surface in internal/handler/http). Exists so the gRPC/otelgrpc/
// grpc-middleware dependency stack is exercised the way a production
// service wires it, without hand-authoring an application-specific
// generated service.
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Config configures the listener address.
type Config struct {
	Addr string
}

// Server hosts a grpc.Server exposing health and reflection, instrumented
// with otelgrpc stats and grpc-middleware's recovery/logging interceptors.
type Server struct {
	listener net.Listener
	server   *grpc.Server
	health   *health.Server
}

// New builds a Server listening on cfg.Addr. The health service reports
// SERVING for the empty (whole-server) service name immediately; no other
// service names are registered with it.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("grpc: listen on %s: %w", cfg.Addr, err)
	}

	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(),
			logging.UnaryServerInterceptor(slogLogger(logger)),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(),
			logging.StreamServerInterceptor(slogLogger(logger)),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(server)

	return &Server{listener: listener, server: server, health: healthServer}, nil
}

// Addr returns the listener's bound address.
func (s *Server) Addr() string { return s.listener.Addr().String() }

// Serve blocks, accepting connections until Stop is called.
func (s *Server) Serve() error {
	if err := s.server.Serve(s.listener); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc: serve: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server and marks health NOT_SERVING first
// so load balancers drain traffic before connections are closed.
func (s *Server) Stop(ctx context.Context) error {
	s.health.Shutdown()
	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
}

func slogLogger(logger *slog.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		switch lvl {
		case logging.LevelDebug:
			logger.Debug(msg, fields...)
		case logging.LevelWarn:
			logger.Warn(msg, fields...)
		case logging.LevelError:
			logger.Error(msg, fields...)
		default:
			logger.Info(msg, fields...)
		}
	})
}
