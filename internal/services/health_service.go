package services

import (
	"context"
	"runtime"
	"time"

	"log/slog"

	"gsrcli/internal/config"
)

// HealthService reports liveness and basic runtime information.
type HealthService struct {
	version   string
	buildTime string
	paths     *config.Paths
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the health check response body.
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	BuildTime string                   `json:"build_time,omitempty"`
	Uptime    string                   `json:"uptime"`
	Runtime   map[string]any           `json:"runtime,omitempty"`
	Checks    map[string]ServiceHealth `json:"checks,omitempty"`
}

// ServiceHealth describes one dependency check.
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. paths may be nil when no
// writable directories are configured.
func NewHealthService(version, buildTime string, paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		paths:     paths,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// Check returns the current health status. It degrades rather than fails:
// an unwritable data directory marks the check degraded but the process
// still reports healthy uptime.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		BuildTime: s.buildTime,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Runtime: map[string]any{
			"go_version": runtime.Version(),
			"os":         runtime.GOOS,
			"arch":       runtime.GOARCH,
			"goroutines": runtime.NumGoroutine(),
		},
		Checks: map[string]ServiceHealth{},
	}

	if s.paths != nil {
		check := ServiceHealth{Status: "healthy"}
		if err := s.paths.EnsureDirectories(); err != nil {
			check.Status = "degraded"
			check.Message = err.Error()
			status.Status = "degraded"
			s.logger.WarnContext(ctx, "data directories unavailable",
				slog.String("error", err.Error()))
		}
		status.Checks["data_directories"] = check
	}

	return status
}

// Ready reports whether the service can accept work.
func (s *HealthService) Ready(ctx context.Context) bool {
	return s.Check(ctx).Status != "unhealthy"
}
