package synth

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// ReflectIndex maps an out-of-range index onto [0, n) by half-sample
// symmetric reflection (d c b a | a b c d | d c b a). Indices further than
// one period away keep reflecting.
func ReflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// Convolve2D convolves a rows×cols row-major grid with a square
// size×size kernel using reflective boundaries. The kernel is centered at
// size/2 on each axis: out[r][c] = Σ k[i][j]·in[r+size/2-i][c+size/2-j].
func Convolve2D(grid []float64, rows, cols int, kernel []float64, size int) ([]float64, error) {
	if err := validateSize("rows", rows); err != nil {
		return nil, err
	}
	if err := validateSize("cols", cols); err != nil {
		return nil, err
	}
	if err := validateSize("kernel size", size); err != nil {
		return nil, err
	}
	if len(grid) != rows*cols {
		return nil, fmt.Errorf("%w: grid length %d != %d×%d", ErrInvalidParameter, len(grid), rows, cols)
	}
	if len(kernel) != size*size {
		return nil, fmt.Errorf("%w: kernel length %d != %d×%d", ErrInvalidParameter, len(kernel), size, size)
	}

	half := size / 2

	// Each source row is padded once so every kernel tap becomes a
	// contiguous slice: padded[p] = row[reflect(p + half - (size-1))].
	padLen := cols + size - 1
	padded := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		src := grid[r*cols : (r+1)*cols]
		p := make([]float64, padLen)
		for k := range p {
			p[k] = src[ReflectIndex(k+half-(size-1), cols)]
		}
		padded[r] = p
	}

	out := make([]float64, rows*cols)
	temp := make([]float64, cols)
	for r := 0; r < rows; r++ {
		dst := out[r*cols : (r+1)*cols]
		for i := 0; i < size; i++ {
			src := padded[ReflectIndex(r+half-i, rows)]
			for j := 0; j < size; j++ {
				w := kernel[i*size+j]
				if w == 0 {
					continue
				}
				off := size - 1 - j
				vecmath.ScaleBlock(temp, src[off:off+cols], w)
				vecmath.AddBlockInPlace(dst, temp)
			}
		}
	}

	return out, nil
}
