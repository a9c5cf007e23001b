package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bryanfinkel/satellite-backend-go/internal/imagery"
	"github.com/bryanfinkel/satellite-backend-go/internal/models"
	"github.com/bryanfinkel/satellite-backend-go/internal/raster"
	"github.com/bryanfinkel/satellite-backend-go/internal/repository"
	"github.com/bryanfinkel/satellite-backend-go/internal/service"
	"github.com/bryanfinkel/satellite-backend-go/internal/spatial"
	"github.com/bryanfinkel/satellite-backend-go/pkg/response"
)

// AnalysisHandler handles HTTP requests for NDVI analyses
type AnalysisHandler struct {
	analysisService *service.AnalysisService
	searcher        service.ImagerySearcher
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService, searcher service.ImagerySearcher) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		searcher:        searcher,
	}
}

// Search handles GET /api/v1/search
func (h *AnalysisHandler) Search(c *gin.Context) {
	bbox, err := parseBBoxQuery(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		response.BadRequest(c, "start_date and end_date are required")
		return
	}

	items, err := h.searcher.Search(c.Request.Context(), bbox, startDate, endDate, 3)
	if err != nil {
		response.BadGateway(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"count": len(items),
		"items": items,
	})
}

// AnalyzeArea handles POST /api/v1/analyze-area
func (h *AnalysisHandler) AnalyzeArea(c *gin.Context) {
	var req models.AreaAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	name := fmt.Sprintf("Area Analysis %s", req.StartDate)
	rec, err := h.analysisService.AnalyzeArea(c.Request.Context(), name, req.BBox, req.StartDate, req.EndDate)
	if err != nil {
		h.renderAnalysisError(c, err)
		return
	}

	response.Success(c, gin.H{
		"analysis_id": rec.ID,
		"statistics":  rec.Stats,
		"bbox":        rec.BBox,
	})
}

// AnalyzeVegetation handles POST /api/v1/vegetation/ndvi
func (h *AnalysisHandler) AnalyzeVegetation(c *gin.Context) {
	var req models.VegetationAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if req.Geometry.Type != "Polygon" || len(req.Geometry.Coordinates) == 0 {
		response.BadRequest(c, "geometry must be a Polygon with at least one ring")
		return
	}

	bbox, err := spatial.BBoxFromRing(req.Geometry.Coordinates[0])
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rec, err := h.analysisService.AnalyzeArea(c.Request.Context(), req.Name, bbox, req.DateRange.StartDate, req.DateRange.EndDate)
	if err != nil {
		h.renderAnalysisError(c, err)
		return
	}

	response.Success(c, gin.H{
		"analysis_id": rec.ID,
		"name":        rec.Name,
		"statistics":  rec.Stats,
		"bbox":        rec.BBox,
		"area_km2":    spatial.BBoxAreaKm2(rec.BBox),
	})
}

// GetAnalysis handles GET /api/v1/analyses/:id
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
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

	response.Success(c, result)
}

// renderAnalysisError maps pipeline errors onto HTTP statuses, reporting
// which stage failed without leaking storage internals.
func (h *AnalysisHandler) renderAnalysisError(c *gin.Context, err error) {
	var (
		fetchErr  *imagery.FetchError
		decodeErr *imagery.DecodeError
		shapeErr  *raster.ShapeMismatchError
		storErr   *repository.StorageError
	)

	switch {
	case errors.Is(err, service.ErrNoImagery):
		response.NotFound(c, err.Error())
	case errors.As(err, &fetchErr), errors.As(err, &decodeErr):
		response.BadGateway(c, "Band fetch failed: "+err.Error())
	case errors.As(err, &shapeErr):
		response.Error(c, http.StatusUnprocessableEntity, "Index computation failed: "+err.Error())
	case errors.Is(err, raster.ErrEmptyData):
		response.Error(c, http.StatusUnprocessableEntity, "Statistics computation failed: "+err.Error())
	case errors.As(err, &storErr):
		response.InternalError(c, "Analysis storage failed for "+storErr.ID)
	default:
		response.InternalError(c, err.Error())
	}
}

// parseBBoxQuery reads min_lon/min_lat/max_lon/max_lat query parameters
func parseBBoxQuery(c *gin.Context) (models.BoundingBox, error) {
	var bbox models.BoundingBox
	for i, key := range []string{"min_lon", "min_lat", "max_lon", "max_lat"} {
		raw := c.Query(key)
		if raw == "" {
			return bbox, fmt.Errorf("%s is required", key)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return bbox, fmt.Errorf("invalid %s: %q", key, raw)
		}
		bbox[i] = v
	}

	if err := spatial.ValidateBBox(bbox); err != nil {
		return bbox, err
	}
	return bbox, nil
}
