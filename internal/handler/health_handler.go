package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/dto"
)

const healthPingTimeout = 2 * time.Second

// PingFunc checks that the database answers.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	ping PingFunc
}

func NewHealthHandler(ping PingFunc) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		log.Printf("[Health] database ping failed: %v", err)
		return c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status:  "UNAVAILABLE",
			Message: "database not reachable",
		})
	}

	return c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "OK",
		Message: "BookIt Backend API is running",
	})
}
