package models

import (
	"github.com/RMahshie/spectra/internal/lines"
	"github.com/RMahshie/spectra/internal/synth"
)

// SpectrumPoint is a single wavelength sample
type SpectrumPoint struct {
	Wavelength float64 `json:"wavelength" doc:"Wavelength in nm"`
	Value      float64 `json:"value" doc:"Sample value"`
}

// ElementSpectrum is the synthesized spectrum of one element
type ElementSpectrum struct {
	Element  Element              `json:"element"`
	Lines    []lines.SpectralLine `json:"lines" doc:"Visible lines with normalized intensity"`
	Table    *lines.Table         `json:"table,omitempty" doc:"Source table rows the lines came from"`
	Grid     []float64            `json:"grid" doc:"Wavelength grid in nm"`
	Spectrum []float64            `json:"spectrum" doc:"1D Gaussian line spectrum on the grid"`
	Trace    []float64            `json:"trace" doc:"Trace recovered by summing the 2D frame over the spatial axis"`
	Peak     SpectrumPoint        `json:"peak" doc:"Maximum of the recovered trace"`
	Image    [][]float64          `json:"image,omitempty" doc:"2D synthetic frame, spatial rows by grid columns"`

	// Frame is the synthetic detector frame used by the renderers.
	Frame *synth.Spectrum2D `json:"-"`
}
