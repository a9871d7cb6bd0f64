package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	d, err := h.admin.Dashboard(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// SystemHealth reports dependency status. It answers 503 when the database
// is unreachable so monitors can alert on the status code alone.
func (h *AdminHandler) SystemHealth(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	r := h.health.Check(ctx)
	status := http.StatusOK
	if r.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, r)
}

func (h *AdminHandler) SystemStats(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := h.admin.SystemStats(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
