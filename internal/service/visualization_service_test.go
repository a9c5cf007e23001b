package service

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/bryanfinkel/satellite-backend-go/internal/models"
	"github.com/bryanfinkel/satellite-backend-go/internal/raster"
)

func TestRenderMap(t *testing.T) {
	svc := NewVisualizationService()

	result := &models.AnalysisResult{
		AnalysisRecord: models.AnalysisRecord{
			ID:   "viz-1",
			BBox: models.BoundingBox{-122.5, 37.7, -122.4, 37.8},
		},
		Grid:       raster.Grid{{0.5, -0.5}, {math.NaN(), 0}},
		Resolution: models.ResolutionFull,
	}

	html, err := svc.RenderMap(result, "Test Map")
	if err != nil {
		t.Fatalf("RenderMap failed: %v", err)
	}

	for _, want := range []string{
		"<title>Test Map</title>",
		"data:image/png;base64,",
		"37.7", "37.8", "-122.5", "-122.4",
		"leaflet",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestRenderMapEmptyGrid(t *testing.T) {
	svc := NewVisualizationService()

	result := &models.AnalysisResult{
		AnalysisRecord: models.AnalysisRecord{ID: "viz-empty"},
		Grid:           raster.Grid{},
	}

	if _, err := svc.RenderMap(result, "Empty"); err == nil {
		t.Fatal("expected error for empty grid")
	}
}

func TestRenderOverlayDimensions(t *testing.T) {
	overlay, err := renderOverlay(raster.Grid{
		{0.1, 0.2, 0.3},
		{0.4, math.NaN(), 0.6},
	})
	if err != nil {
		t.Fatalf("renderOverlay failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(overlay))
	if err != nil {
		t.Fatalf("overlay is not a valid PNG: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("overlay size = %dx%d, want 3x2", b.Dx(), b.Dy())
	}

	// The masked pixel must be fully transparent
	if _, _, _, a := img.At(1, 1).RGBA(); a != 0 {
		t.Errorf("masked pixel alpha = %d, want 0", a)
	}
}

func TestNDVIColorRamp(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		r, g, a uint8
	}{
		{"bare soil", -1, 255, 0, 255},
		{"transition", 0, 255, 255, 255},
		{"dense vegetation", 1, 0, 255, 255},
		{"invalid", math.NaN(), 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ndviColor(tt.v)
			if c.R != tt.r || c.G != tt.g || c.A != tt.a {
				t.Errorf("ndviColor(%v) = %+v, want r=%d g=%d a=%d", tt.v, c, tt.r, tt.g, tt.a)
			}
		})
	}
}
