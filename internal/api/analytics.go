package api

import (
	"net/http"

	"supportgenie/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AnalyticsController handles the analytics API endpoint
type AnalyticsController struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsController creates a new analytics controller
func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// RegisterRoutesV1 registers the analytics routes under the given group
func (c *AnalyticsController) RegisterRoutesV1(group *gin.RouterGroup) {
	group.GET("/analytics", c.Get)
}

// Get computes and returns the current analytics snapshot. The service
// degrades to a default snapshot on failure, so this endpoint never errors.
func (c *AnalyticsController) Get(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.analyticsService.Compute(ctx.Request.Context()))
}
