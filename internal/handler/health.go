package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// DatabaseChecker reports whether the database answers
type DatabaseChecker interface {
	Health(ctx context.Context) error
}

// RedisPinger reports whether Redis answers
type RedisPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db     DatabaseChecker
	redis  RedisPinger
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler. redis may be nil when no
// Redis URL is configured.
func NewHealthHandler(db DatabaseChecker, redis RedisPinger, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthHandler{
		db:     db,
		redis:  redis,
		logger: logger,
	}
}

// HealthResponse represents the health status response
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /healthz - Simple liveness check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready handles GET /readyz
// Returns 200 only if every configured dependency is healthy
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if err := h.db.Health(ctx); err != nil {
		checks["postgres"] = "error: " + err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			checks["redis"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "not configured"
	}

	status := "ready"
	statusCode := http.StatusOK
	if !healthy {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, ReadinessResponse{Status: status, Checks: checks})

	h.logger.Info("readiness check",
		slog.String("status", status),
		slog.String("postgres", checks["postgres"]),
		slog.String("redis", checks["redis"]),
	)
}
