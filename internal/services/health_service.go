package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// ClientCounter reports how many live websocket clients are connected.
type ClientCounter interface {
	ClientCount() int
}

// SessionCounter reports how many upload sessions are live.
type SessionCounter interface {
	Count() int
}

// HealthStatus is the health check response.
type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Runtime   map[string]any `json:"runtime,omitempty"`
	Services  map[string]any `json:"services,omitempty"`
}

// HealthService reports liveness and basic runtime statistics.
type HealthService struct {
	version   string
	startTime time.Time
	sessions  SessionCounter
	clients   ClientCounter
	logger    *slog.Logger
}

// NewHealthService creates a health service. The websocket hub may be nil
// when the server runs without the live update channel.
func NewHealthService(version string, sessions SessionCounter, clients ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		startTime: time.Now(),
		sessions:  sessions,
		clients:   clients,
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Health returns the current health status. The service is in-memory only,
// so there are no downstream dependencies to probe; health is liveness plus
// runtime statistics.
func (hs *HealthService) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]any{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
		},
		Services: map[string]any{},
	}

	if hs.sessions != nil {
		status.Services["sessions"] = map[string]any{
			"status": "up",
			"active": hs.sessions.Count(),
		}
	}
	if hs.clients != nil {
		status.Services["websocket"] = map[string]any{
			"status":  "up",
			"clients": hs.clients.ClientCount(),
		}
	}

	hs.logger.DebugContext(ctx, "health check served",
		slog.String("status", status.Status))

	return status
}
