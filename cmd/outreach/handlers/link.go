package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rekanalumni/outreach/cmd/outreach/middleware"
	"github.com/rekanalumni/outreach/cmd/outreach/service"
	"github.com/rekanalumni/outreach/common/bootstrap"
)

// LinkHandler handles link preview and confirmation requests
type LinkHandler struct {
	components *bootstrap.Components
	preview    *service.LinkPreviewService
	confirm    *service.LinkConfirmService
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(components *bootstrap.Components, preview *service.LinkPreviewService, confirm *service.LinkConfirmService) *LinkHandler {
	return &LinkHandler{
		components: components,
		preview:    preview,
		confirm:    confirm,
	}
}

// Preview proposes member-alumni links for review
// GET /api/v1/links/preview?filter=member.cohort==9
func (h *LinkHandler) Preview(c echo.Context) error {
	ctx := c.Request().Context()
	authz := middleware.GetAuthz(c)
	filter := c.QueryParam("filter")

	result, err := h.preview.Preview(ctx, authz, filter)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// Confirm writes one operator-approved member-alumni link
// POST /api/v1/links/confirm
func (h *LinkHandler) Confirm(c echo.Context) error {
	ctx := c.Request().Context()
	authz := middleware.GetAuthz(c)

	var req struct {
		MemberID uuid.UUID `json:"member_id"`
		AlumniID uuid.UUID `json:"alumni_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	member, err := h.confirm.Confirm(ctx, authz, req.MemberID, req.AlumniID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, member)
}
