package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectionCounter is satisfied by *websocket.Hub
type ConnectionCounter interface {
	TotalClientCount() int
}

// HealthHandler reports the status of each backing service
type HealthHandler struct {
	db  Pinger
	hub ConnectionCounter
}

// NewHealthHandler creates a new HealthHandler. db may be nil when the
// process runs without a database.
func NewHealthHandler(db Pinger, hub ConnectionCounter) *HealthHandler {
	return &HealthHandler{db: db, hub: hub}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status      string            `json:"status"`
	Services    map[string]string `json:"services"`
	Connections int               `json:"connections"`
	Timestamp   string            `json:"timestamp"`
}

// Check handles GET /health. Returns 503 when any service is down.
func (h *HealthHandler) Check(c echo.Context) error {
	services := map[string]string{
		"database":  "not_configured",
		"websocket": "up",
	}
	healthy := true

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Health check: database unreachable")
			services["database"] = "down"
			healthy = false
		} else {
			services["database"] = "up"
		}
	}

	connections := 0
	if h.hub != nil {
		connections = h.hub.TotalClientCount()
	}

	response := HealthResponse{
		Status:      "ok",
		Services:    services,
		Connections: connections,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if !healthy {
		response.Status = "degraded"
		return c.JSON(http.StatusServiceUnavailable, response)
	}
	return c.JSON(http.StatusOK, response)
}
