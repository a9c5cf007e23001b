package models

// BoundingBox is a rectangular geographic area as
// [min-lon, min-lat, max-lon, max-lat].
type BoundingBox [4]float64

// MinLon returns the western edge
func (b BoundingBox) MinLon() float64 { return b[0] }

// MinLat returns the southern edge
func (b BoundingBox) MinLat() float64 { return b[1] }

// MaxLon returns the eastern edge
func (b BoundingBox) MaxLon() float64 { return b[2] }

// MaxLat returns the northern edge
func (b BoundingBox) MaxLat() float64 { return b[3] }
