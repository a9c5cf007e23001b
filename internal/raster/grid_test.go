package raster

import (
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestShape(t *testing.T) {
	tests := []struct {
		name       string
		g          Grid
		rows, cols int
	}{
		{"empty", Grid{}, 0, 0},
		{"single", Grid{{1}}, 1, 1},
		{"rect", Grid{{1, 2, 3}, {4, 5, 6}}, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, cols := tt.g.Shape()
			if rows != tt.rows || cols != tt.cols {
				t.Errorf("Shape() = (%d, %d), want (%d, %d)", rows, cols, tt.rows, tt.cols)
			}
		})
	}
}

func TestDownsample(t *testing.T) {
	g := make(Grid, 25)
	for i := range g {
		g[i] = make([]float64, 25)
		for j := range g[i] {
			g[i][j] = float64(i*25 + j)
		}
	}

	down := Downsample(g, 10)

	// Rows/cols 0, 10, 20 survive
	rows, cols := down.Shape()
	if rows != 3 || cols != 3 {
		t.Fatalf("downsampled shape = (%d, %d), want (3, 3)", rows, cols)
	}
	if down[1][2] != g[10][20] {
		t.Errorf("down[1][2] = %v, want %v", down[1][2], g[10][20])
	}
}

func TestDownsampleFactorOne(t *testing.T) {
	g := Grid{{1, 2}, {3, 4}}
	down := Downsample(g, 1)

	rows, cols := down.Shape()
	if rows != 2 || cols != 2 {
		t.Fatalf("shape = (%d, %d), want (2, 2)", rows, cols)
	}
	if down[1][1] != 4 {
		t.Errorf("down[1][1] = %v, want 4", down[1][1])
	}
}

func TestDownsampleFactorBelowOne(t *testing.T) {
	g := Grid{{1, 2}}
	down := Downsample(g, 0)

	if _, cols := down.Shape(); cols != 2 {
		t.Errorf("factor 0 should behave like 1, got cols = %d", cols)
	}
}

func TestDownsampleSmallerThanFactor(t *testing.T) {
	g := Grid{{7, 8}, {9, 10}}
	down := Downsample(g, 10)

	// At least the corner sample survives
	rows, cols := down.Shape()
	if rows != 1 || cols != 1 || down[0][0] != 7 {
		t.Errorf("down = %v, want [[7]]", down)
	}
}

func TestGridMarshalInvalidAsNull(t *testing.T) {
	g := Grid{{0.5, math.NaN()}, {-0.25, 0.75}}

	// NaN would abort a plain float64 encoding, so invalid pixels must
	// come out as null
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got, want := string(data), "[[0.5,null],[-0.25,0.75]]"; got != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}
	if strings.Contains(string(data), "NaN") {
		t.Error("encoded grid leaks NaN")
	}

	var back Grid
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if IsValid(back[0][1]) {
		t.Errorf("back[0][1] = %v, want invalid", back[0][1])
	}
	if back[0][0] != 0.5 || back[1][0] != -0.25 || back[1][1] != 0.75 {
		t.Errorf("round trip = %v", back)
	}
}

func TestGridClone(t *testing.T) {
	g := Grid{{0.5, 0.25}}
	c := g.Clone()
	c[0][0] = -1

	if g[0][0] != 0.5 {
		t.Errorf("original mutated through clone: %v", g[0][0])
	}
	if Grid(nil).Clone() != nil {
		t.Error("Clone of nil grid should stay nil")
	}
}

func TestDownsamplePreservesInvalid(t *testing.T) {
	g := Grid{
		{math.NaN(), 1, 2},
		{3, 4, 5},
		{6, 7, math.NaN()},
	}
	down := Downsample(g, 2)

	if IsValid(down[0][0]) {
		t.Error("down[0][0] should stay invalid")
	}
	if IsValid(down[1][1]) {
		t.Error("down[1][1] should stay invalid")
	}
}
