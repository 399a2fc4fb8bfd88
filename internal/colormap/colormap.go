package colormap

import "math"

// Visible range in nanometers.
const (
	MinVisible = 380.0
	MaxVisible = 750.0
)

// DefaultGamma is the perceptual brightness correction used for plotted curves.
const DefaultGamma = 0.8

// OutOfRangeAlpha is the opacity fraction returned for wavelengths outside the visible range.
const OutOfRangeAlpha = 0.7

// Color is an RGBA color with every channel in [0,255].
type Color struct {
	R float64 `json:"r" doc:"Red channel [0,255]"`
	G float64 `json:"g" doc:"Green channel [0,255]"`
	B float64 `json:"b" doc:"Blue channel [0,255]"`
	A float64 `json:"a" doc:"Alpha channel [0,255]"`
}

// Float returns the color with every channel scaled to [0,1].
func (c Color) Float() (r, g, b, a float64) {
	return c.R / 255, c.G / 255, c.B / 255, c.A / 255
}

// RGBA8 returns the color rounded to 8-bit channels.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return to8(c.R), to8(c.G), to8(c.B), to8(c.A)
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 255)))
}

type band struct {
	lo, hi float64
	rgb    func(w, gamma float64) (r, g, b float64)
}

// bands partition [MinVisible, MaxVisible]. Breakpoints are inclusive on
// both sides; adjoining formulas agree at the shared wavelength.
var bands = []band{
	{380, 440, func(w, gamma float64) (float64, float64, float64) {
		att := 0.3 + 0.7*(w-380)/(440-380)
		return math.Pow(-(w-440)/(440-380)*att, gamma), 0, math.Pow(att, gamma)
	}},
	{440, 490, func(w, gamma float64) (float64, float64, float64) {
		return 0, math.Pow((w-440)/(490-440), gamma), 1
	}},
	{490, 510, func(w, gamma float64) (float64, float64, float64) {
		return 0, 1, math.Pow(-(w-510)/(510-490), gamma)
	}},
	{510, 580, func(w, gamma float64) (float64, float64, float64) {
		return math.Pow((w-510)/(580-510), gamma), 1, 0
	}},
	{580, 645, func(w, gamma float64) (float64, float64, float64) {
		return 1, math.Pow(-(w-645)/(645-580), gamma), 0
	}},
	{645, 750, func(w, gamma float64) (float64, float64, float64) {
		att := 0.3 + 0.7*(750-w)/(750-645)
		return math.Pow(att, gamma), 0, 0
	}},
}

// WavelengthToColor maps a wavelength in nanometers to an approximate
// display color. Wavelengths outside the visible range are clamped for the
// color computation and returned with alpha reduced to OutOfRangeAlpha.
func WavelengthToColor(wavelength, gamma float64) Color {
	alpha := 1.0
	if wavelength < MinVisible || wavelength > MaxVisible || math.IsNaN(wavelength) {
		alpha = OutOfRangeAlpha
	}
	w := clampVisible(wavelength)

	var r, g, b float64
	for _, bd := range bands {
		if bd.lo <= w && w <= bd.hi {
			r, g, b = bd.rgb(w, gamma)
			break
		}
	}

	return Color{R: r * 255, G: g * 255, B: b * 255, A: alpha * 255}
}

// InVisibleRange reports whether wavelength lies in [MinVisible, MaxVisible].
func InVisibleRange(wavelength float64) bool {
	return wavelength >= MinVisible && wavelength <= MaxVisible
}

func clampVisible(w float64) float64 {
	if w < MinVisible {
		return MinVisible
	}
	if w > MaxVisible {
		return MaxVisible
	}
	return w
}
