package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/contactform/internal/logger"
	"github.com/deppfellow/contactform/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthHandler reports whether the service can reach its dependencies.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs the health endpoint handler.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// HealthCheck is the outcome of one dependency check.
type HealthCheck struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /status. Status is "healthy" only when
// every check in Checks passed.
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]HealthCheck `json:"checks"`
}

// CheckHealth returns 200 when every enabled check passes and 503 otherwise.
// The database check opens and pings a fresh connection.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	cfg := h.server.Config

	log := logger.FromContext(c.Request().Context(), h.server.Logger).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: cfg.Primary.Env,
		Checks:      make(map[string]HealthCheck),
	}

	timeout := cfg.Observability.HealthChecks.Timeout

	if cfg.Observability.HealthCheckEnabled("database") {
		response.Checks["database"] = h.runCheck(c.Request().Context(), log, "database", timeout, h.server.DB.Ping)
	}

	if h.server.Redis != nil && cfg.Observability.HealthCheckEnabled("redis") {
		response.Checks["redis"] = h.runCheck(c.Request().Context(), log, "redis", timeout, func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	for _, check := range response.Checks {
		if check.Status != statusHealthy {
			response.Status = statusUnhealthy
		}
	}

	if response.Status != statusHealthy {
		log.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthEvent(map[string]any{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	log.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) runCheck(
	parent context.Context,
	log zerolog.Logger,
	name string,
	timeout time.Duration,
	check func(ctx context.Context) error,
) HealthCheck {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	checkStart := time.Now()
	err := check(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		log.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		h.recordHealthEvent(map[string]any{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return HealthCheck{Status: statusUnhealthy, ResponseTime: elapsed.String(), Error: err.Error()}
	}

	log.Info().
		Str("check", name).
		Dur("response_time", elapsed).
		Msg("health check passed")

	return HealthCheck{Status: statusHealthy, ResponseTime: elapsed.String()}
}

func (h *HealthHandler) recordHealthEvent(params map[string]any) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", params)
	}
}
