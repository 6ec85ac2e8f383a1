package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/contracts-tracker/internal/llm"
)

// Pinger reports database reachability.
type Pinger interface {
	HealthCheck(ctx context.Context, timeout time.Duration) error
}

// HealthChecker probes the database and the completion provider.
type HealthChecker struct {
	DB       Pinger
	Provider llm.Provider
	Timeout  time.Duration
	Logger   *slog.Logger
}

type HealthReport struct {
	Status    string `json:"status"`
	Database  bool   `json:"database"`
	Provider  bool   `json:"provider"`
	Timestamp string `json:"timestamp"`
}

// Check never fails; each dependency is reported as up or down. The database
// decides the overall status, a down provider only degrades it.
func (h *HealthChecker) Check(ctx context.Context) HealthReport {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	rep := HealthReport{Timestamp: time.Now().UTC().Format(time.RFC3339)}
	if h.DB != nil {
		if err := h.DB.HealthCheck(ctx, timeout); err != nil {
			h.logger().Warn("health.db.down", "error", err)
		} else {
			rep.Database = true
		}
	}
	if h.Provider != nil {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		rep.Provider = h.Provider.IsHealthy(pctx)
		cancel()
	}
	switch {
	case !rep.Database:
		rep.Status = "down"
	case !rep.Provider:
		rep.Status = "degraded"
	default:
		rep.Status = "ok"
	}
	return rep
}

func (h *HealthChecker) Handle(c *gin.Context) {
	rep := h.Check(c.Request.Context())
	status := http.StatusOK
	if rep.Status == "down" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, rep)
}

func (h *HealthChecker) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// NewGRPCHealthServer registers the standard health service on a new gRPC server.
func NewGRPCHealthServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return srv, hs
}

// WatchHealth mirrors the database probe into the gRPC health status every
// interval until ctx is done, then marks the service as shutting down.
func (h *HealthChecker) WatchHealth(ctx context.Context, hs *health.Server, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	update := func() {
		st := healthpb.HealthCheckResponse_SERVING
		if rep := h.Check(ctx); rep.Status == "down" {
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus("", st)
	}
	update()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-t.C:
			update()
		}
	}
}
