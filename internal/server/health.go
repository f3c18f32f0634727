package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthStatus represents the overall health of the system
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentStatus represents the health of an individual component
type ComponentStatus string

const (
	ComponentStatusUp   ComponentStatus = "up"
	ComponentStatusDown ComponentStatus = "down"
)

// Health represents the complete health check response
type Health struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents the health of a single system component
type ComponentHealth struct {
	Status    ComponentStatus `json:"status"`
	Message   string          `json:"message,omitempty"`
	LatencyMs float64         `json:"latency_ms,omitempty"`
}

// readyTimeout bounds the database ping made by the probes.
const readyTimeout = 2 * time.Second

// handleHealth reports process liveness plus component status. It always
// answers 200 while the process is serving.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.checkHealth(r.Context()))
}

// handleReady answers 200 only once the schema is in place and the database
// answers a ping, so load balancers hold traffic until then.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	health := s.checkHealth(r.Context())
	if health.Status != HealthStatusHealthy {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":     "not_ready",
			"components": health.Components,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// checkHealth performs health checks on all components
func (s *Server) checkHealth(ctx context.Context) Health {
	health := Health{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now().UTC(),
		Version:   s.cfg.Version,
		Components: map[string]ComponentHealth{
			"schema":   s.checkSchemaHealth(),
			"database": s.checkDatabaseHealth(ctx),
		},
	}
	for _, c := range health.Components {
		if c.Status == ComponentStatusDown {
			health.Status = HealthStatusUnhealthy
		}
	}
	return health
}

func (s *Server) checkSchemaHealth() ComponentHealth {
	if s.schema == nil || !s.schema.Ready() {
		return ComponentHealth{Status: ComponentStatusDown, Message: "schema not initialized"}
	}
	return ComponentHealth{Status: ComponentStatusUp}
}

// checkDatabaseHealth checks PostgreSQL connectivity
func (s *Server) checkDatabaseHealth(ctx context.Context) ComponentHealth {
	if s.db == nil {
		return ComponentHealth{Status: ComponentStatusDown, Message: "database not configured"}
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		// Driver detail stays in the logs.
		s.log.Warn("database_ping_failed", zap.Error(err))
		return ComponentHealth{Status: ComponentStatusDown, Message: "database unavailable"}
	}
	return ComponentHealth{
		Status:    ComponentStatusUp,
		LatencyMs: float64(time.Since(start).Microseconds()) / 1000,
	}
}
