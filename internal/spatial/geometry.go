package spatial

import (
	"fmt"

	"github.com/golang/geo/s2"

	"github.com/bryanfinkel/satellite-backend-go/internal/models"
)

// EarthRadiusKm is the mean Earth radius in kilometers
const EarthRadiusKm = 6371.01

// ValidateBBox checks coordinate ranges and edge ordering
func ValidateBBox(b models.BoundingBox) error {
	if b.MinLon() < -180 || b.MaxLon() > 180 {
		return fmt.Errorf("longitude out of range [-180, 180]: %v", b)
	}
	if b.MinLat() < -90 || b.MaxLat() > 90 {
		return fmt.Errorf("latitude out of range [-90, 90]: %v", b)
	}
	if b.MinLon() >= b.MaxLon() {
		return fmt.Errorf("min longitude %v must be less than max longitude %v", b.MinLon(), b.MaxLon())
	}
	if b.MinLat() >= b.MaxLat() {
		return fmt.Errorf("min latitude %v must be less than max latitude %v", b.MinLat(), b.MaxLat())
	}
	return nil
}

// BBoxToWKT renders the bounding box as a closed POLYGON ring,
// counter-clockwise from the south-west corner.
func BBoxToWKT(b models.BoundingBox) string {
	return fmt.Sprintf("POLYGON((%g %g, %g %g, %g %g, %g %g, %g %g))",
		b.MinLon(), b.MinLat(),
		b.MaxLon(), b.MinLat(),
		b.MaxLon(), b.MaxLat(),
		b.MinLon(), b.MaxLat(),
		b.MinLon(), b.MinLat())
}

// BBoxFromRing derives the bounding box of a polygon's outer ring,
// given as [lon, lat] pairs.
func BBoxFromRing(ring [][2]float64) (models.BoundingBox, error) {
	if len(ring) == 0 {
		return models.BoundingBox{}, fmt.Errorf("polygon ring is empty")
	}

	b := models.BoundingBox{ring[0][0], ring[0][1], ring[0][0], ring[0][1]}
	for _, coord := range ring[1:] {
		if coord[0] < b[0] {
			b[0] = coord[0]
		}
		if coord[1] < b[1] {
			b[1] = coord[1]
		}
		if coord[0] > b[2] {
			b[2] = coord[0]
		}
		if coord[1] > b[3] {
			b[3] = coord[1]
		}
	}
	return b, nil
}

// BBoxAreaKm2 returns the approximate surface area of the box in km²
func BBoxAreaKm2(b models.BoundingBox) float64 {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(b.MinLat(), b.MinLon()))
	rect = rect.AddPoint(s2.LatLngFromDegrees(b.MaxLat(), b.MaxLon()))
	return rect.Area() * EarthRadiusKm * EarthRadiusKm
}
