package synth

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/spectra/internal/lines"
)

func TestVerticalPSF(t *testing.T) {
	psf, err := VerticalPSF(50, 3)
	require.NoError(t, err)
	require.Len(t, psf, 50)

	sum := 0.0
	for _, v := range psf {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Equal(t, 25, ArgMax(psf))
	assert.InDelta(t, psf[24], psf[26], 1e-15)
}

func TestGaussianPSF2D(t *testing.T) {
	for _, size := range []int{1, 9, 20} {
		psf, err := GaussianPSF2D(size, 1.2)
		require.NoError(t, err)
		require.Len(t, psf, size*size)

		sum := 0.0
		for _, v := range psf {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "size %d", size)

		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				assert.InDelta(t, psf[y*size+x], psf[x*size+y], 1e-15)
				assert.InDelta(t, psf[y*size+x], psf[(size-1-y)*size+(size-1-x)], 1e-15)
			}
		}
	}
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{-10, -5, 0, 5, 10}, Linspace(-10, 10, 5))
	assert.Equal(t, []float64{3}, Linspace(3, 7, 1))
	assert.Nil(t, Linspace(0, 1, 0))

	grid := DefaultGrid()
	require.Len(t, grid, 1000)
	assert.Equal(t, 380.0, grid[0])
	assert.Equal(t, 750.0, grid[999])
}

func TestReflectIndex(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 4, 0}, {3, 4, 3},
		{-1, 4, 0}, {-2, 4, 1}, {-4, 4, 3}, {-5, 4, 3},
		{4, 4, 3}, {5, 4, 2}, {7, 4, 0}, {8, 4, 0}, {9, 4, 1},
		{-7, 1, 0}, {12, 1, 0},
		{-1, 2, 0}, {2, 2, 1}, {3, 2, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReflectIndex(tt.i, tt.n), "ReflectIndex(%d, %d)", tt.i, tt.n)
	}
}

// referenceConvolve evaluates the reflective convolution sum directly.
func referenceConvolve(grid []float64, rows, cols int, kernel []float64, size int) []float64 {
	half := size / 2
	out := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			acc := 0.0
			for i := 0; i < size; i++ {
				for j := 0; j < size; j++ {
					sr := ReflectIndex(r+half-i, rows)
					sc := ReflectIndex(c+half-j, cols)
					acc += kernel[i*size+j] * grid[sr*cols+sc]
				}
			}
			out[r*cols+c] = acc
		}
	}
	return out
}

func TestConvolve2D_MatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	tests := []struct {
		name             string
		rows, cols, size int
	}{
		{"odd kernel", 6, 9, 3},
		{"even kernel", 7, 8, 4},
		{"kernel wider than signal", 3, 5, 8},
		{"single row", 1, 12, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := make([]float64, tt.rows*tt.cols)
			for i := range grid {
				grid[i] = rng.Float64()
			}
			kernel := make([]float64, tt.size*tt.size)
			for i := range kernel {
				kernel[i] = rng.Float64()
			}

			got, err := Convolve2D(grid, tt.rows, tt.cols, kernel, tt.size)
			require.NoError(t, err)

			want := referenceConvolve(grid, tt.rows, tt.cols, kernel, tt.size)
			require.Len(t, got, len(want))
			for i := range want {
				assert.InDelta(t, want[i], got[i], 1e-12, "index %d", i)
			}
		})
	}
}

func TestConvolve2D_Identity(t *testing.T) {
	grid := []float64{1, 2, 3, 4, 5, 6}
	got, err := Convolve2D(grid, 2, 3, []float64{1}, 1)
	require.NoError(t, err)
	assert.Equal(t, grid, got)
}

func TestConvolve2D_ConstantStaysConstant(t *testing.T) {
	const rows, cols = 10, 4
	grid := make([]float64, rows*cols)
	for i := range grid {
		grid[i] = 2.5
	}
	kernel, err := GaussianPSF2D(20, 50)
	require.NoError(t, err)

	got, err := Convolve2D(grid, rows, cols, kernel, 20)
	require.NoError(t, err)
	for i, v := range got {
		assert.InDelta(t, 2.5, v, 1e-12, "index %d", i)
	}
}

func TestConvolve2D_Errors(t *testing.T) {
	_, err := Convolve2D([]float64{1, 2}, 1, 3, []float64{1}, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Convolve2D([]float64{1, 2}, 1, 2, []float64{1, 1}, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Convolve2D(nil, 0, 2, []float64{1}, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSpectrum1D(t *testing.T) {
	grid := []float64{498, 500, 502}
	spec, err := Spectrum1D([]lines.SpectralLine{{Wavelength: 500, Intensity: 0.5}}, grid, 2)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, spec[1], 1e-15)
	assert.InDelta(t, 0.5*math.Exp(-0.5), spec[0], 1e-15)
	assert.InDelta(t, spec[0], spec[2], 1e-15)

	// Superposition is a plain sum.
	two, err := Spectrum1D([]lines.SpectralLine{{Wavelength: 500, Intensity: 0.5}, {Wavelength: 500, Intensity: 0.5}}, grid, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, two[1], 1e-15)
}

func TestSynthesize_EmptyLines(t *testing.T) {
	grid := Linspace(380, 750, 64)
	p := Params{SpatialHeight: 12, SpectralSigma: 2, SpatialSigma: 4, PSFSize: 5, PSFSigma: 1.2}

	s, err := Synthesize(nil, grid, p)
	require.NoError(t, err)
	assert.Equal(t, 12, s.Rows)
	assert.Equal(t, 64, s.Cols)
	require.Len(t, s.Data, 12*64)
	for _, v := range s.Data {
		assert.Equal(t, 0.0, v)
	}
	assert.Equal(t, 0.0, s.Max())
	assert.Equal(t, s.Data, s.Normalized().Data)
}

func TestSynthesize_LinearInIntensity(t *testing.T) {
	grid := Linspace(380, 750, 200)
	p := Params{SpatialHeight: 20, SpectralSigma: 2, SpatialSigma: 8, PSFSize: 6, PSFSigma: 3}

	one, err := Synthesize([]lines.SpectralLine{{Wavelength: 520, Intensity: 0.4}}, grid, p)
	require.NoError(t, err)
	two, err := Synthesize([]lines.SpectralLine{{Wavelength: 520, Intensity: 0.8}}, grid, p)
	require.NoError(t, err)

	for i := range one.Data {
		assert.InDelta(t, 2*one.Data[i], two.Data[i], 1e-12)
	}
}

func TestSynthesize_RecoveredPeak(t *testing.T) {
	grid := DefaultGrid()
	s, err := Synthesize([]lines.SpectralLine{{Wavelength: 500, Intensity: 1}}, grid, DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, 100, s.Rows)
	assert.Equal(t, 1000, s.Cols)

	recovered := s.ColumnSums()
	require.Len(t, recovered, 1000)

	peak := ArgMax(recovered)
	want := NearestIndex(grid, 500)
	assert.LessOrEqual(t, math.Abs(float64(peak-want)), 1.0, "peak %d (%.3f nm), want %d", peak, grid[peak], want)

	norm := s.Normalized()
	assert.InDelta(t, 1.0, norm.Max(), 1e-12)
}

func TestFrame_MatchesSynthesize(t *testing.T) {
	grid := Linspace(380, 750, 120)
	p := Params{SpatialHeight: 16, SpectralSigma: 2, SpatialSigma: 4, PSFSize: 5, PSFSigma: 1.5}
	ls := []lines.SpectralLine{{Wavelength: 486.1, Intensity: 0.3}, {Wavelength: 656.3, Intensity: 1}}

	spec, err := Spectrum1D(ls, grid, p.SpectralSigma)
	require.NoError(t, err)
	frame, err := Frame(spec, p)
	require.NoError(t, err)

	want, err := Synthesize(ls, grid, p)
	require.NoError(t, err)
	assert.Equal(t, want, frame)

	_, err = Frame(spec, Params{})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSynthesize_InvalidParameters(t *testing.T) {
	grid := Linspace(380, 750, 10)
	good := Params{SpatialHeight: 4, SpectralSigma: 2, SpatialSigma: 1, PSFSize: 3, PSFSigma: 1}
	line := []lines.SpectralLine{{Wavelength: 500, Intensity: 1}}

	tests := []struct {
		name   string
		grid   []float64
		lines  []lines.SpectralLine
		mutate func(*Params)
	}{
		{"empty grid", nil, line, func(*Params) {}},
		{"zero height", grid, line, func(p *Params) { p.SpatialHeight = 0 }},
		{"zero spectral sigma", grid, line, func(p *Params) { p.SpectralSigma = 0 }},
		{"negative spatial sigma", grid, line, func(p *Params) { p.SpatialSigma = -1 }},
		{"zero psf size", grid, line, func(p *Params) { p.PSFSize = 0 }},
		{"nan psf sigma", grid, line, func(p *Params) { p.PSFSigma = math.NaN() }},
		{"inf line", grid, []lines.SpectralLine{{Wavelength: math.Inf(1), Intensity: 1}}, func(*Params) {}},
		{"nan grid", []float64{500, math.NaN()}, line, func(*Params) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := good
			tt.mutate(&p)
			_, err := Synthesize(tt.lines, tt.grid, p)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestSpectrum2D_Accessors(t *testing.T) {
	s := &Spectrum2D{Rows: 2, Cols: 3, Data: []float64{1, 2, 3, 4, 5, 6}}
	assert.Equal(t, 6.0, s.At(1, 2))
	assert.Equal(t, []float64{4, 5, 6}, s.Row(1))
	assert.Equal(t, []float64{2, 5}, s.Column(1))
	assert.Equal(t, []float64{5, 7, 9}, s.ColumnSums())
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, s.Matrix())
	assert.Equal(t, 6.0, s.Max())

	assert.Equal(t, -1, ArgMax(nil))
	assert.Equal(t, -1, NearestIndex(nil, 1))
	assert.Equal(t, 2, NearestIndex([]float64{1, 2, 3}, 2.9))
}
