package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/rekanalumni/outreach/cmd/outreach/container"
	"github.com/rekanalumni/outreach/cmd/outreach/handlers"
)

// RegisterLinkRoutes registers the link preview and confirmation routes
func RegisterLinkRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewLinkHandler(c.Components, c.PreviewService, c.ConfirmService)

	links := e.Group("/api/v1/links")
	{
		links.GET("/preview", h.Preview)  // GET /api/v1/links/preview
		links.POST("/confirm", h.Confirm) // POST /api/v1/links/confirm
	}
}
