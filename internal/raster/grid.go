package raster

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// Grid is a 2-D raster of float64 samples, one row per slice.
// Invalid (masked / no-data) pixels are represented as NaN.
type Grid [][]float64

// ShapeMismatchError reports two grids that cannot be combined pixel-for-pixel.
type ShapeMismatchError struct {
	RowsA, ColsA int
	RowsB, ColsB int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("grid shape mismatch: %dx%d vs %dx%d", e.RowsA, e.ColsA, e.RowsB, e.ColsB)
}

// Shape returns (rows, cols). A grid with no rows has shape (0, 0).
func (g Grid) Shape() (int, int) {
	if len(g) == 0 {
		return 0, 0
	}
	return len(g), len(g[0])
}

// Rectangular reports whether every row has the same length.
func (g Grid) Rectangular() bool {
	if len(g) == 0 {
		return true
	}
	cols := len(g[0])
	for _, row := range g {
		if len(row) != cols {
			return false
		}
	}
	return true
}

// IsValid reports whether a sample is a real measurement
func IsValid(v float64) bool {
	return !math.IsNaN(v)
}

// MarshalJSON encodes invalid pixels as JSON null so consumers cannot
// mistake a mask marker for a measurement. NaN has no JSON representation
// and would abort encoding mid-stream otherwise.
func (g Grid) MarshalJSON() ([]byte, error) {
	out := make([][]*float64, len(g))
	for i, row := range g {
		out[i] = make([]*float64, len(row))
		for j := range row {
			if IsValid(row[j]) {
				v := row[j]
				out[i][j] = &v
			}
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores null entries to NaN mask markers
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][]*float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}

	out := make(Grid, len(rows))
	for i, row := range rows {
		out[i] = make([]float64, len(row))
		for j := range row {
			if row[j] == nil {
				out[i][j] = math.NaN()
			} else {
				out[i][j] = *row[j]
			}
		}
	}
	*g = out
	return nil
}

// Clone returns a deep copy with its own backing arrays
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Downsample keeps every factor-th row and column. A factor below 1 is
// treated as 1 (no reduction). NaN markers are preserved as-is.
func Downsample(g Grid, factor int) Grid {
	if factor < 1 {
		factor = 1
	}

	out := make(Grid, 0, (len(g)+factor-1)/factor)
	for i := 0; i < len(g); i += factor {
		row := make([]float64, 0, (len(g[i])+factor-1)/factor)
		for j := 0; j < len(g[i]); j += factor {
			row = append(row, g[i][j])
		}
		out = append(out, row)
	}
	return out
}
