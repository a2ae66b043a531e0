package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rekanalumni/outreach/cmd/outreach/middleware"
	"github.com/rekanalumni/outreach/cmd/outreach/service"
	"github.com/rekanalumni/outreach/common/bootstrap"
)

// MergeHandler handles duplicate-member merge requests
type MergeHandler struct {
	components *bootstrap.Components
	merge      *service.MergeService
}

// NewMergeHandler creates a new merge handler
func NewMergeHandler(components *bootstrap.Components, merge *service.MergeService) *MergeHandler {
	return &MergeHandler{
		components: components,
		merge:      merge,
	}
}

// Merge folds a duplicate member into the surviving one
// POST /api/v1/members/merge
func (h *MergeHandler) Merge(c echo.Context) error {
	ctx := c.Request().Context()
	authz := middleware.GetAuthz(c)

	var req struct {
		WinnerID uuid.UUID         `json:"winner_id"`
		LoserID  uuid.UUID         `json:"loser_id"`
		Fields   map[string]string `json:"fields"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	h.components.Logger.Info("merge requested",
		"winner_id", req.WinnerID,
		"loser_id", req.LoserID,
		"fields", len(req.Fields),
		"operator", authz.Operator,
	)

	winner, err := h.merge.Merge(ctx, authz, req.WinnerID, req.LoserID, req.Fields)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, winner)
}
