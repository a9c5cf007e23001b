package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bryanfinkel/satellite-backend-go/internal/service"
	"github.com/bryanfinkel/satellite-backend-go/pkg/response"
)

// VisualizationHandler serves rendered NDVI maps
type VisualizationHandler struct {
	analysisService *service.AnalysisService
	vizService      *service.VisualizationService
}

// NewVisualizationHandler creates a new visualization handler
func NewVisualizationHandler(analysisService *service.AnalysisService, vizService *service.VisualizationService) *VisualizationHandler {
	return &VisualizationHandler{
		analysisService: analysisService,
		vizService:      vizService,
	}
}

// GetMap handles GET /api/v1/visualization/map/:id
func (h *VisualizationHandler) GetMap(c *gin.Context) {
	id := c.Param("id")

	result, err := h.analysisService.Retrieve(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if result == nil {
		response.NotFound(c, "Analysis not found: "+id)
		return
	}

	html, err := h.vizService.RenderMap(result, "NDVI Analysis: "+result.Name)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
