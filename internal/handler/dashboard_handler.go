package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schooltrack/attendance-api/internal/models"
	"github.com/schooltrack/attendance-api/internal/service"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
	"github.com/schooltrack/attendance-api/pkg/response"
)

// DashboardHandler serves the role-shaped landing payload.
type DashboardHandler struct {
	dashboards *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboards *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// Get godoc
// @Summary Dashboard for the authenticated user
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	dashboard, err := h.dashboards.For(c.Request.Context(), models.UserProfile{
		ID:       claims.ProfileID,
		Name:     claims.Name,
		Role:     claims.Role,
		EntityID: claims.EntityID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}
