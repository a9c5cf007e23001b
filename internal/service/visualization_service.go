package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"image/png"

	"github.com/bryanfinkel/satellite-backend-go/internal/models"
	"github.com/bryanfinkel/satellite-backend-go/internal/raster"
)

// VisualizationService renders a stored analysis as an interactive map:
// a Leaflet page with the NDVI grid drawn as a PNG overlay over the
// record's bounding box. It consumes finished grids only and never touches
// storage itself.
type VisualizationService struct{}

// NewVisualizationService creates a visualization service
func NewVisualizationService() *VisualizationService {
	return &VisualizationService{}
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map');
var bounds = [[{{.MinLat}}, {{.MinLon}}], [{{.MaxLat}}, {{.MaxLon}}]];
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
    attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
L.imageOverlay('data:image/png;base64,{{.OverlayB64}}', bounds, {opacity: 0.7}).addTo(map);
map.fitBounds(bounds);
</script>
</body>
</html>
`))

type mapData struct {
	Title      string
	MinLat     float64
	MinLon     float64
	MaxLat     float64
	MaxLon     float64
	OverlayB64 string
}

// RenderMap produces a self-contained HTML page for one analysis result
func (s *VisualizationService) RenderMap(result *models.AnalysisResult, title string) (string, error) {
	overlay, err := renderOverlay(result.Grid)
	if err != nil {
		return "", fmt.Errorf("failed to render overlay for analysis %s: %w", result.ID, err)
	}

	var buf bytes.Buffer
	err = mapTemplate.Execute(&buf, mapData{
		Title:      title,
		MinLat:     result.BBox.MinLat(),
		MinLon:     result.BBox.MinLon(),
		MaxLat:     result.BBox.MaxLat(),
		MaxLon:     result.BBox.MaxLon(),
		OverlayB64: base64.StdEncoding.EncodeToString(overlay),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render map for analysis %s: %w", result.ID, err)
	}

	return buf.String(), nil
}

// renderOverlay encodes the grid as a PNG, one pixel per sample.
// Invalid pixels are fully transparent.
func renderOverlay(grid raster.Grid) ([]byte, error) {
	rows, cols := grid.Shape()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("grid is empty")
	}

	img := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < len(grid[y]); x++ {
			img.SetNRGBA(x, y, ndviColor(grid[y][x]))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ndviColor maps an index value in [-1, 1] onto a red-yellow-green ramp
func ndviColor(v float64) color.NRGBA {
	if !raster.IsValid(v) {
		return color.NRGBA{}
	}

	// Normalize to [0, 1]
	t := (v + 1) / 2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	var r, g uint8
	if t < 0.5 {
		// red to yellow
		r = 255
		g = uint8(255 * (t * 2))
	} else {
		// yellow to green
		r = uint8(255 * (2 - t*2))
		g = 255
	}
	return color.NRGBA{R: r, G: g, B: 0, A: 255}
}
