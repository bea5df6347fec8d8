package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	startedAt time.Time
}

func NewHandler() *Handler { return &Handler{startedAt: time.Now().UTC()} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "watershed-api",
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
		"time":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}
