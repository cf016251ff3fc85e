package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/dashtam/core/internal/infrastructure/persistence/postgres"
	"github.com/dashtam/core/internal/infrastructure/persistence/redis"
)

// HealthHandler handles health check endpoints for monitoring and orchestration.
// It provides liveness and readiness probes for Kubernetes/Docker health checks.
type HealthHandler struct {
	db     *sqlx.DB
	redis  *redis.Client
	logger zerolog.Logger
}

// NewHealthHandler creates a new HealthHandler with the given dependencies.
// All dependencies are injected via constructor for testability.
//
// Parameters:
//   - db: PostgreSQL database connection pool
//   - redis: Redis client for session cache / token blacklist / rate limiting
//   - logger: Structured logger for health check events
func NewHealthHandler(
	db *sqlx.DB,
	redis *redis.Client,
	logger zerolog.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:     db,
		redis:  redis,
		logger: logger,
	}
}

// LivenessResponse represents the response from the liveness endpoint.
type LivenessResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ReadinessResponse represents the response from the readiness endpoint.
type ReadinessResponse struct {
	Status    string                  `json:"status"`
	Timestamp string                  `json:"timestamp"`
	Checks    map[string]CheckDetails `json:"checks"`
}

// CheckDetails provides detailed information about a specific health check.
type CheckDetails struct {
	Status    string  `json:"status"` // "up" or "down"
	LatencyMs float64 `json:"latency_ms,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// Liveness handles GET /health
// Returns 200 OK if the server is running. This is a simple liveness probe
// that indicates the HTTP server is responsive.
//
// This endpoint should be used for Kubernetes livenessProbe or Docker HEALTHCHECK
// to determine if the container should be restarted.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	response := LivenessResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if err := EncodeJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to encode liveness response")
	}
}

// Readiness handles GET /health/ready
// Checks if the application is ready to accept traffic by verifying the
// database and Redis are reachable.
//
// Status determination:
//   - "ok": both dependencies healthy
//   - "degraded": Redis down (session cache/rate limiting/token blacklist
//     degrade, but requests that only need the database still succeed)
//   - "down": database down
//
// Response:
//   - 200 OK if status is "ok" or "degraded"
//   - 503 Service Unavailable if status is "down"
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := make(map[string]CheckDetails)

	dbStatus, dbLatency := h.checkDatabase(ctx)
	checks["database"] = dbStatus

	redisStatus, redisLatency := h.checkRedis(ctx)
	checks["redis"] = redisStatus

	criticalDown := dbStatus.Status == "down"
	redisDown := redisStatus.Status == "down"

	var status string
	var httpStatus int

	if criticalDown {
		status = "down"
		httpStatus = http.StatusServiceUnavailable
	} else if redisDown {
		status = "degraded"
		httpStatus = http.StatusOK
	} else {
		status = "ok"
		httpStatus = http.StatusOK
	}

	response := ReadinessResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	logEvent := h.logger.With().
		Str("status", status).
		Float64("database_latency_ms", dbLatency).
		Float64("redis_latency_ms", redisLatency).
		Bool("database_healthy", dbStatus.Status == "up").
		Bool("redis_healthy", redisStatus.Status == "up").
		Logger()

	if status == "down" {
		logEvent.Warn().Msg("readiness check failed: service down")
	} else if status == "degraded" {
		logEvent.Warn().Msg("readiness check degraded: non-critical dependency down")
	} else {
		logEvent.Debug().Msg("readiness check succeeded")
	}

	if err := EncodeJSON(w, httpStatus, response); err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to encode readiness response")
	}
}

// checkDatabase verifies PostgreSQL database connectivity and measures latency.
func (h *HealthHandler) checkDatabase(ctx context.Context) (CheckDetails, float64) {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	err := postgres.HealthCheck(checkCtx, h.db)
	latency := time.Since(start).Seconds() * 1000

	if err != nil {
		h.logger.Warn().
			Err(err).
			Float64("latency_ms", latency).
			Msg("database health check failed")

		return CheckDetails{
			Status:    "down",
			LatencyMs: latency,
			Error:     err.Error(),
		}, latency
	}

	return CheckDetails{
		Status:    "up",
		LatencyMs: latency,
	}, latency
}

// checkRedis verifies Redis connectivity and measures latency.
func (h *HealthHandler) checkRedis(ctx context.Context) (CheckDetails, float64) {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()

	if h.redis == nil {
		latency := time.Since(start).Seconds() * 1000
		h.logger.Warn().
			Float64("latency_ms", latency).
			Msg("redis client is nil")

		return CheckDetails{
			Status:    "down",
			LatencyMs: latency,
			Error:     "redis client not configured",
		}, latency
	}

	err := h.redis.HealthCheck(checkCtx)
	latency := time.Since(start).Seconds() * 1000

	if err != nil {
		h.logger.Warn().
			Err(err).
			Float64("latency_ms", latency).
			Msg("redis health check failed")

		return CheckDetails{
			Status:    "down",
			LatencyMs: latency,
			Error:     err.Error(),
		}, latency
	}

	return CheckDetails{
		Status:    "up",
		LatencyMs: latency,
	}, latency
}
