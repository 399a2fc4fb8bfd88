package synth

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Spectrum2D is a dense spatial×spectral grid stored row-major.
type Spectrum2D struct {
	Rows int
	Cols int
	Data []float64
}

func newSpectrum2D(rows, cols int) *Spectrum2D {
	return &Spectrum2D{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns the value at row r, column c.
func (s *Spectrum2D) At(r, c int) float64 {
	return s.Data[r*s.Cols+c]
}

// Row returns row r as a slice aliasing the grid.
func (s *Spectrum2D) Row(r int) []float64 {
	return s.Data[r*s.Cols : (r+1)*s.Cols]
}

// Column returns a copy of column c.
func (s *Spectrum2D) Column(c int) []float64 {
	out := make([]float64, s.Rows)
	for r := range out {
		out[r] = s.Data[r*s.Cols+c]
	}
	return out
}

// ColumnSums collapses the spatial axis, recovering a 1D intensity trace.
func (s *Spectrum2D) ColumnSums() []float64 {
	out := make([]float64, s.Cols)
	for r := 0; r < s.Rows; r++ {
		vecmath.AddBlockInPlace(out, s.Row(r))
	}
	return out
}

// Max returns the largest value in the grid, or 0 for an empty grid.
func (s *Spectrum2D) Max() float64 {
	if len(s.Data) == 0 {
		return 0
	}
	m := s.Data[0]
	for _, v := range s.Data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Normalized returns a copy divided by the grid maximum. A grid whose
// maximum is not positive is returned unscaled.
func (s *Spectrum2D) Normalized() *Spectrum2D {
	out := &Spectrum2D{Rows: s.Rows, Cols: s.Cols, Data: make([]float64, len(s.Data))}
	m := s.Max()
	if m <= 0 {
		copy(out.Data, s.Data)
		return out
	}
	vecmath.ScaleBlock(out.Data, s.Data, 1/m)
	return out
}

// Matrix returns the grid as a slice of row copies.
func (s *Spectrum2D) Matrix() [][]float64 {
	out := make([][]float64, s.Rows)
	for r := range out {
		out[r] = append([]float64(nil), s.Row(r)...)
	}
	return out
}

// ArgMax returns the index of the first maximum of v, or -1 when empty.
func ArgMax(v []float64) int {
	if len(v) == 0 {
		return -1
	}
	best := 0
	for i, x := range v {
		if x > v[best] {
			best = i
		}
	}
	return best
}

// NearestIndex returns the index of the grid point closest to w.
func NearestIndex(grid []float64, w float64) int {
	if len(grid) == 0 {
		return -1
	}
	best := 0
	bestDist := math.Abs(grid[0] - w)
	for i, g := range grid[1:] {
		if d := math.Abs(g - w); d < bestDist {
			best, bestDist = i+1, d
		}
	}
	return best
}

