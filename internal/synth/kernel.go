package synth

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// VerticalPSF returns a Gaussian of the given length centered at
// height/2 (integer division), normalized to unit sum.
func VerticalPSF(height int, sigma float64) ([]float64, error) {
	if err := validateSize("spatial height", height); err != nil {
		return nil, err
	}
	if err := validateSigma("spatial sigma", sigma); err != nil {
		return nil, err
	}

	center := float64(height / 2)
	psf := make([]float64, height)
	for i := range psf {
		d := (float64(i) - center) / sigma
		psf[i] = math.Exp(-0.5 * d * d)
	}
	normalize(psf)

	return psf, nil
}

// GaussianPSF2D returns a size×size row-major Gaussian kernel normalized to
// unit sum. Sample coordinates span [-(size/2), size/2] in size evenly
// spaced steps on both axes, so even sizes have non-integer spacing.
func GaussianPSF2D(size int, sigma float64) ([]float64, error) {
	if err := validateSize("psf size", size); err != nil {
		return nil, err
	}
	if err := validateSigma("psf sigma", sigma); err != nil {
		return nil, err
	}

	coords := Linspace(-float64(size/2), float64(size/2), size)
	psf := make([]float64, size*size)
	twoSigma2 := 2 * sigma * sigma
	for y, yy := range coords {
		for x, xx := range coords {
			psf[y*size+x] = math.Exp(-(xx*xx + yy*yy) / twoSigma2)
		}
	}
	normalize(psf)

	return psf, nil
}

// Linspace returns n evenly spaced samples over [lo, hi]. A single sample is lo.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

func normalize(v []float64) {
	sum := vecmath.Sum(v)
	if sum == 0 {
		return
	}
	vecmath.ScaleBlockInPlace(v, 1/sum)
}
