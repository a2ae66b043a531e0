package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/rekanalumni/outreach/cmd/outreach/container"
	"github.com/rekanalumni/outreach/cmd/outreach/handlers"
)

// RegisterMergeRoutes registers the duplicate-member merge route
func RegisterMergeRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewMergeHandler(c.Components, c.MergeService)

	members := e.Group("/api/v1/members")
	{
		members.POST("/merge", h.Merge) // POST /api/v1/members/merge
	}
}
