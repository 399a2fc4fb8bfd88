// Package synth builds synthetic emission spectra from sparse line lists:
// a 1D sum of Gaussian line profiles, a 2D mock detector frame obtained by
// spreading that spectrum through a spatial PSF and blurring it with a 2D
// PSF, and the 1D trace recovered from the frame.
package synth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/RMahshie/spectra/internal/lines"
)

// Params controls the shape of the synthetic frame.
type Params struct {
	SpatialHeight int
	SpectralSigma float64
	SpatialSigma  float64
	PSFSize       int
	PSFSigma      float64
}

// DefaultParams returns the element viewer settings: 100 spatial rows,
// 2 nm line width, a broad spatial profile and a 20×20 PSF.
func DefaultParams() Params {
	return Params{
		SpatialHeight: 100,
		SpectralSigma: 2,
		SpatialSigma:  40,
		PSFSize:       20,
		PSFSigma:      50,
	}
}

// Validate checks every shape and width parameter.
func (p Params) Validate() error {
	if err := validateSize("spatial height", p.SpatialHeight); err != nil {
		return err
	}
	if err := validateSigma("spectral sigma", p.SpectralSigma); err != nil {
		return err
	}
	if err := validateSigma("spatial sigma", p.SpatialSigma); err != nil {
		return err
	}
	if err := validateSize("psf size", p.PSFSize); err != nil {
		return err
	}
	return validateSigma("psf sigma", p.PSFSigma)
}

// DefaultGrid returns 1000 wavelengths evenly spaced over [380, 750] nm.
func DefaultGrid() []float64 {
	return Linspace(lines.MinWavelength, lines.MaxWavelength, 1000)
}

// Spectrum1D sums a Gaussian of width sigma per line, scaled by its
// intensity, evaluated at every grid wavelength.
func Spectrum1D(ls []lines.SpectralLine, grid []float64, sigma float64) ([]float64, error) {
	if err := validateSize("wavelength grid length", len(grid)); err != nil {
		return nil, err
	}
	if err := validateSigma("spectral sigma", sigma); err != nil {
		return nil, err
	}
	if err := validateFinite("wavelength grid", grid); err != nil {
		return nil, err
	}
	if err := validateLines(ls); err != nil {
		return nil, err
	}

	spec := make([]float64, len(grid))
	for _, l := range ls {
		for i, w := range grid {
			d := (w - l.Wavelength) / sigma
			spec[i] += l.Intensity * math.Exp(-0.5*d*d)
		}
	}

	return spec, nil
}

func validateLines(ls []lines.SpectralLine) error {
	for i, l := range ls {
		if !isFinite(l.Wavelength) || !isFinite(l.Intensity) {
			return fmt.Errorf("%w: line %d is not finite: %v nm, %v", ErrInvalidParameter, i, l.Wavelength, l.Intensity)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SpreadVertical builds the spatial×spectral grid whose column j is
// spec[j] times the spatial profile.
func SpreadVertical(spec, profile []float64) *Spectrum2D {
	s := newSpectrum2D(len(profile), len(spec))
	for r, weight := range profile {
		vecmath.ScaleBlock(s.Row(r), spec, weight)
	}
	return s
}

// Synthesize runs the full pipeline for one line list: 1D spectrum,
// vertical spread and reflective 2D PSF convolution. The result is not
// clamped or renormalized.
func Synthesize(ls []lines.SpectralLine, grid []float64, p Params) (*Spectrum2D, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	spec, err := Spectrum1D(ls, grid, p.SpectralSigma)
	if err != nil {
		return nil, err
	}
	return Frame(spec, p)
}

// Frame spreads an already computed 1D spectrum along the spatial axis
// and blurs it with the 2D PSF. Synthesize is Spectrum1D followed by
// Frame.
func Frame(spec []float64, p Params) (*Spectrum2D, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	profile, err := VerticalPSF(p.SpatialHeight, p.SpatialSigma)
	if err != nil {
		return nil, err
	}
	spread := SpreadVertical(spec, profile)

	kernel, err := GaussianPSF2D(p.PSFSize, p.PSFSigma)
	if err != nil {
		return nil, err
	}
	blurred, err := Convolve2D(spread.Data, spread.Rows, spread.Cols, kernel, p.PSFSize)
	if err != nil {
		return nil, err
	}

	return &Spectrum2D{Rows: spread.Rows, Cols: spread.Cols, Data: blurred}, nil
}
