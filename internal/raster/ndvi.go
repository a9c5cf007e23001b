package raster

import "math"

// ComputeNDVI computes the normalized difference vegetation index
// (nir-red)/(nir+red) for two co-registered bands of identical shape.
//
// A pixel is marked invalid (NaN) when either band is <= 0 there
// (non-illuminated or masked source pixels) or when the denominator is
// exactly zero. Computed values are clamped to [-1, 1] to absorb residual
// floating-point artifacts. Inputs are not mutated.
func ComputeNDVI(red, nir Grid) (Grid, error) {
	if err := checkShapes(red, nir); err != nil {
		return nil, err
	}

	ndvi := make(Grid, len(red))
	for i := range red {
		ndvi[i] = make([]float64, len(red[i]))
		for j := range red[i] {
			r := red[i][j]
			n := nir[i][j]

			if r <= 0 || n <= 0 || !IsValid(r) || !IsValid(n) {
				ndvi[i][j] = math.NaN()
				continue
			}

			sum := n + r
			if sum == 0 {
				ndvi[i][j] = math.NaN()
				continue
			}

			v := (n - r) / sum
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			ndvi[i][j] = v
		}
	}

	return ndvi, nil
}

// checkShapes verifies both grids are rectangular and identically shaped.
// Broadcasting or cropping mismatched bands is explicitly disallowed.
func checkShapes(a, b Grid) error {
	rowsA, colsA := a.Shape()
	rowsB, colsB := b.Shape()

	if !a.Rectangular() || !b.Rectangular() || rowsA != rowsB || colsA != colsB {
		return &ShapeMismatchError{RowsA: rowsA, ColsA: colsA, RowsB: rowsB, ColsB: colsB}
	}
	return nil
}
