package colormap

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// SpectralGamma is the gamma used when sampling the spectral colormap.
const SpectralGamma = 0.3

// spectralStep is the wavelength spacing between colormap keypoints.
const spectralStep = 2.0

type keypoint struct {
	col   colorful.Color
	alpha float64
	pos   float64
}

// Spectral is a continuous colormap over the visible range built from
// WavelengthToColor keypoints. Lookups between keypoints blend in RGB.
type Spectral struct {
	gamma  float64
	points []keypoint
}

// NewSpectral samples WavelengthToColor every 2 nm across the visible range.
func NewSpectral(gamma float64) *Spectral {
	n := int((MaxVisible-MinVisible)/spectralStep) + 1
	points := make([]keypoint, 0, n)
	for i := 0; i < n; i++ {
		w := MinVisible + float64(i)*spectralStep
		r, g, b, a := WavelengthToColor(w, gamma).Float()
		points = append(points, keypoint{
			col:   colorful.Color{R: r, G: g, B: b},
			alpha: a,
			pos:   (w - MinVisible) / (MaxVisible - MinVisible),
		})
	}
	return &Spectral{gamma: gamma, points: points}
}

// Gamma returns the gamma the colormap was sampled with.
func (s *Spectral) Gamma() float64 { return s.gamma }

// At returns the colormap color for a wavelength. Wavelengths outside the
// visible range take the color of the nearest end.
func (s *Spectral) At(wavelength float64) Color {
	t := (wavelength - MinVisible) / (MaxVisible - MinVisible)
	if math.IsNaN(t) {
		t = 0
	}
	return s.atNormalized(t)
}

func (s *Spectral) atNormalized(t float64) Color {
	first, last := s.points[0], s.points[len(s.points)-1]
	switch {
	case t <= first.pos:
		return fromColorful(first.col, first.alpha)
	case t >= last.pos:
		return fromColorful(last.col, last.alpha)
	}

	for i := 0; i < len(s.points)-1; i++ {
		c1, c2 := s.points[i], s.points[i+1]
		if c1.pos <= t && t <= c2.pos {
			f := (t - c1.pos) / (c2.pos - c1.pos)
			return fromColorful(c1.col.BlendRgb(c2.col, f), c1.alpha+(c2.alpha-c1.alpha)*f)
		}
	}

	return fromColorful(last.col, last.alpha)
}

func fromColorful(c colorful.Color, alpha float64) Color {
	c = c.Clamped()
	return Color{R: c.R * 255, G: c.G * 255, B: c.B * 255, A: alpha * 255}
}

// Hex returns the opaque "#rrggbb" form of c.
func (c Color) Hex() string {
	r, g, b, _ := c.Float()
	return colorful.Color{R: r, G: g, B: b}.Clamped().Hex()
}
