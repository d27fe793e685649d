// Package health reports whether the relational store answers, over gRPC and plain HTTP.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/fekuna/stockmanager/pkg/httpx"
	"github.com/fekuna/stockmanager/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName is the name accepted by Check besides the empty (whole server) name.
const ServiceName = "stockmanager"

const pingTimeout = 2 * time.Second

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	healthpb.UnimplementedHealthServer

	db     Pinger
	logger logger.ZapLogger
}

func NewServer(db Pinger, log logger.ZapLogger) *Server {
	return &Server{
		db:     db,
		logger: log,
	}
}

func (s *Server) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if svc := req.GetService(); svc != "" && svc != ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}
	if !s.serving(ctx) {
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}

// ServeHTTP answers GET /healthz.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.serving(r.Context()) {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) serving(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		return false
	}
	return true
}
