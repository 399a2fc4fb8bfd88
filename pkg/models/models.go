package models

import (
	"time"

	"github.com/RMahshie/spectra/internal/colormap"
	"github.com/RMahshie/spectra/internal/filters"
	"github.com/RMahshie/spectra/internal/lines"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// ColorRequest asks for the display color of one wavelength
type ColorRequest struct {
	Wavelength float64 `query:"wavelength" required:"true" doc:"Wavelength in nm"`
	Gamma      float64 `query:"gamma" default:"0.8" exclusiveMinimum:"0" doc:"Gamma exponent"`
}

// ColorResponse carries the mapped color in both channel scales
type ColorResponse struct {
	Body struct {
		Wavelength float64        `json:"wavelength" doc:"Requested wavelength in nm"`
		Visible    bool           `json:"visible" doc:"Whether the wavelength lies in [380, 750] nm"`
		Color      colormap.Color `json:"color" doc:"Color with channels in [0,255]"`
		Float      [4]float64     `json:"float" doc:"Color with channels in [0,1]"`
		Hex        string         `json:"hex" example:"#00ff92" doc:"Opaque hex form"`
	}
}

// ListFiltersResponse lists the discovered filter names
type ListFiltersResponse struct {
	Body struct {
		Filters []string `json:"filters" doc:"Filter names in sorted order"`
	}
}

// GetFilterRequest names one filter
type GetFilterRequest struct {
	Name string `path:"name" doc:"Filter name"`
}

// FilterDetail is a filter curve with its peak and display color
type FilterDetail struct {
	Curve *filters.Curve `json:"curve" doc:"Sampled transmission curve"`
	Peak  filters.Peak   `json:"peak" doc:"Sample of maximum throughput"`
	Color colormap.Color `json:"color" doc:"Color of the peak wavelength"`
}

// GetFilterResponse returns one filter curve
type GetFilterResponse struct {
	Body FilterDetail
}

// FilterPlotRequest selects the filters to draw
type FilterPlotRequest struct {
	Names  string `query:"names" required:"true" doc:"Comma separated filter names"`
	Fill   bool   `query:"fill" doc:"Fill under each curve"`
	Width  int    `query:"width" default:"900" minimum:"100" maximum:"4000" doc:"Image width in pixels"`
	Height int    `query:"height" default:"500" minimum:"100" maximum:"4000" doc:"Image height in pixels"`
}

// ImageResponse is a PNG body
type ImageResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// ListElementsResponse lists elements with stored line tables
type ListElementsResponse struct {
	Body struct {
		Elements []Element `json:"elements" doc:"Elements in atomic number order"`
	}
}

// ElementRequest names one element by key, symbol or atomic number
type ElementRequest struct {
	Element string `path:"element" example:"26-Fe" doc:"Element key, symbol or atomic number"`
}

// ElementLinesResponse returns the selected visible lines of an element
type ElementLinesResponse struct {
	Body struct {
		Element Element              `json:"element"`
		Lines   []lines.SpectralLine `json:"lines" doc:"Visible lines with normalized intensity"`
		Table   *lines.Table         `json:"table" doc:"Source table rows the lines came from"`
	}
}

// ElementSpectrumRequest asks for a synthesized spectrum
type ElementSpectrumRequest struct {
	Element string `path:"element" example:"1-H" doc:"Element key, symbol or atomic number"`
	Image   bool   `query:"image" doc:"Include the 2D synthetic frame"`
}

// ElementSpectrumResponse returns a synthesized spectrum
type ElementSpectrumResponse struct {
	Body *ElementSpectrum
}

// ElementPlotRequest selects one of the element renderings
type ElementPlotRequest struct {
	Element string `path:"element" example:"1-H" doc:"Element key, symbol or atomic number"`
	Kind    string `query:"kind" default:"lines" enum:"lines,intensity,color,trace" doc:"Rendering to produce"`
	White   bool   `query:"white" doc:"Draw lines in white instead of their color"`
	Width   int    `query:"width" default:"900" minimum:"100" maximum:"4000" doc:"Image width in pixels"`
	Height  int    `query:"height" default:"500" minimum:"100" maximum:"4000" doc:"Image height in pixels"`
}
