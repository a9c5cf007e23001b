package raster

import "errors"

// ErrEmptyData is returned when a grid contains no valid pixels, so no
// meaningful statistics exist for it.
var ErrEmptyData = errors.New("no valid pixels in grid")

// Stats summarizes the valid pixels of a grid
type Stats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// Summarize reduces a grid to {min, max, mean} over valid pixels only.
// Invalid (NaN) pixels are excluded from the reduction. Returns
// ErrEmptyData when every pixel is invalid rather than NaN statistics.
func Summarize(g Grid) (Stats, error) {
	var (
		count    int
		sum      float64
		min, max float64
	)

	for _, row := range g {
		for _, v := range row {
			if !IsValid(v) {
				continue
			}
			if count == 0 {
				min, max = v, v
			} else {
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
			sum += v
			count++
		}
	}

	if count == 0 {
		return Stats{}, ErrEmptyData
	}

	return Stats{
		Min:  min,
		Max:  max,
		Mean: sum / float64(count),
	}, nil
}
