package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pantryfresh/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// HealthCheck is one dependency probed by the health endpoint
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler reports whether the service and its dependencies are up
type HealthHandler struct {
	BaseHandler
	name      string
	version   string
	checks    []HealthCheck
	timeout   time.Duration
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler probing checks
func NewHealthHandler(name, version string, log *zap.Logger, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		BaseHandler: newBaseHandler(log),
		name:        name,
		version:     version,
		checks:      checks,
		timeout:     2 * time.Second,
		startTime:   time.Now(),
	}
}

// HealthResponse is the health endpoint body
type HealthResponse struct {
	Status    string            `json:"status"`
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	GoVersion string            `json:"goVersion"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// Health runs every check and answers 503 when any fails
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "ok",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    make(map[string]string, len(h.checks)),
		Timestamp: time.Now().UTC(),
	}
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("check", check.Name), zap.Error(err))
			resp.Checks[check.Name] = "down"
			resp.Status = "degraded"
			continue
		}
		resp.Checks[check.Name] = "up"
	}

	if resp.Status != "ok" {
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
		return
	}
	h.Success(c, resp)
}
