package models

import (
	"time"

	"github.com/bryanfinkel/satellite-backend-go/internal/raster"
)

// Resolution reports which representation of a stored grid a retrieval returned
const (
	ResolutionFull        = "full"
	ResolutionDownsampled = "downsampled"
)

// AnalysisMetadata is the caller-supplied context stored with an analysis
type AnalysisMetadata struct {
	Name   string      `json:"name"`
	BBox   BoundingBox `json:"bbox"`
	RedURL string      `json:"red_url"`
	NIRURL string      `json:"nir_url"`
}

// AnalysisRecord is the durable unit of an NDVI analysis.
// Statistics are always computed from the full-resolution grid, never from
// the downsampled one, so they stay accurate regardless of which
// representation a retrieval returns.
type AnalysisRecord struct {
	ID        string       `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	BBox      BoundingBox  `json:"bbox" db:"bbox"`
	Geometry  string       `json:"geometry,omitempty" db:"geometry"` // POLYGON WKT derived from bbox
	Stats     raster.Stats `json:"statistics" db:"stats"`
	RedURL    string       `json:"red_url" db:"red_url"`
	NIRURL    string       `json:"nir_url" db:"nir_url"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// AnalysisResult is a retrieved analysis plus the grid representation that
// satisfied the request.
type AnalysisResult struct {
	AnalysisRecord
	Grid       raster.Grid `json:"grid"`
	Resolution string      `json:"resolution"` // "full" or "downsampled"
}
