package models

// DateRange bounds an imagery search in time
type DateRange struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// GeoJSONGeometry is the polygon a caller draws around the area of interest
type GeoJSONGeometry struct {
	Type        string         `json:"type" binding:"required"`
	Coordinates [][][2]float64 `json:"coordinates" binding:"required"`
}

// VegetationAnalysisRequest is the body of POST /vegetation/ndvi
type VegetationAnalysisRequest struct {
	Name      string          `json:"name" binding:"required"`
	Geometry  GeoJSONGeometry `json:"geometry" binding:"required"`
	DateRange DateRange       `json:"date_range" binding:"required"`
}

// AreaAnalysisRequest is the body of POST /analyze-area
type AreaAnalysisRequest struct {
	BBox      BoundingBox `json:"bbox" binding:"required"`
	StartDate string      `json:"start_date" binding:"required"`
	EndDate   string      `json:"end_date" binding:"required"`
}
