package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rekanalumni/outreach/cmd/outreach/service"
)

// errorResponse maps a service error onto the HTTP surface
func errorResponse(c echo.Context, err error) error {
	status := http.StatusBadGateway
	switch service.KindOf(err) {
	case service.KindUnauthorized:
		status = http.StatusForbidden
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindNotFound:
		status = http.StatusNotFound
	}

	return c.JSON(status, map[string]interface{}{
		"error": err.Error(),
	})
}
