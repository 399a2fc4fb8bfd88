package render

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/RMahshie/spectra/internal/colormap"
	"github.com/RMahshie/spectra/internal/lines"
	"github.com/RMahshie/spectra/internal/synth"
)

// Wavelength range shown by the element plots, slightly wider than the
// selection window so lines at its edges stay visible.
const (
	ViewMin = 370.0
	ViewMax = 760.0
)

// LinePlot draws one vertical line per spectral line on a black
// background, colored by the spectral colormap (or white) with opacity
// equal to the line's relative intensity.
func LinePlot(w io.Writer, ls []lines.SpectralLine, spectral *colormap.Spectral, white bool, size Size) error {
	size, err := size.resolve()
	if err != nil {
		return err
	}

	dc := gg.NewContext(size.Width, size.Height)
	dc.ClearWithColor(gg.RGB(0, 0, 0))
	p := newPlot(dc, ViewMin, ViewMax, 0, 1)

	if err := p.lines(ls, spectral, white); err != nil {
		return err
	}

	if err := p.frame(gg.RGB(0.6, 0.6, 0.6), "wavelength (nm)", ""); err != nil {
		return err
	}
	return encode(dc, w)
}

// SpectrumImage draws the synthetic frame, one source pixel per grid
// sample, scaled to size. In grayscale mode brightness is value/max; in
// colored mode each column takes its wavelength's spectral color with
// opacity value/max over black.
func SpectrumImage(w io.Writer, frame *synth.Spectrum2D, grid []float64, spectral *colormap.Spectral, colored bool, size Size) error {
	if frame == nil || frame.Rows == 0 || frame.Cols == 0 {
		return ErrNothingToDraw
	}
	if colored && len(grid) != frame.Cols {
		return ErrNothingToDraw
	}
	size, err := size.resolve()
	if err != nil {
		return err
	}

	src := FrameImage(frame, grid, spectral, colored)

	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	dc := gg.NewContextForImage(dst)
	return encode(dc, w)
}

// FrameImage converts a frame into an image with one pixel per sample.
// Row 0 of the frame is the top row of the image.
func FrameImage(frame *synth.Spectrum2D, grid []float64, spectral *colormap.Spectral, colored bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, frame.Cols, frame.Rows))
	norm := frame.Normalized()

	colors := make([]colormap.Color, frame.Cols)
	if colored {
		for c := range colors {
			colors[c] = spectral.At(grid[c])
		}
	}

	for r := 0; r < frame.Rows; r++ {
		for c, v := range norm.Row(r) {
			v = clamp01(v)
			if colored {
				cr, cg, cb, _ := colors[c].RGBA8()
				img.SetNRGBA(c, r, color.NRGBA{R: cr, G: cg, B: cb, A: uint8(v*255 + 0.5)})
			} else {
				g := uint8(v*255 + 0.5)
				img.SetNRGBA(c, r, color.NRGBA{R: g, G: g, B: g, A: 255})
			}
		}
	}
	return img
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lines strokes one full-height vertical line per spectral line with
// alpha equal to its intensity.
func (p *plot) lines(ls []lines.SpectralLine, spectral *colormap.Spectral, white bool) error {
	dc := p.dc
	dc.SetLineWidth(2)
	for _, l := range ls {
		if white {
			dc.SetRGBA(1, 1, 1, l.Intensity)
		} else {
			setColor(dc, spectral.At(l.Wavelength), l.Intensity)
		}
		dc.DrawLine(p.x(l.Wavelength), p.bot, p.x(l.Wavelength), p.top)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

// TracePlot draws the recovered 1D trace as a white polyline, scaled to
// its own maximum, over white vertical lines at the spectral lines with
// alpha equal to their intensity.
func TracePlot(w io.Writer, grid, values []float64, ls []lines.SpectralLine, size Size) error {
	if len(grid) == 0 || len(grid) != len(values) {
		return ErrNothingToDraw
	}
	size, err := size.resolve()
	if err != nil {
		return err
	}

	ymax := 0.0
	for _, v := range values {
		if v > ymax {
			ymax = v
		}
	}

	dc := gg.NewContext(size.Width, size.Height)
	dc.ClearWithColor(gg.RGB(0, 0, 0))
	p := newPlot(dc, math.Min(ViewMin, grid[0]), math.Max(ViewMax, grid[len(grid)-1]), 0, ymax*1.05)

	if err := p.lines(ls, nil, true); err != nil {
		return err
	}

	dc.SetRGBA(1, 1, 1, 1)
	dc.SetLineWidth(1.5)
	dc.MoveTo(p.x(grid[0]), p.y(values[0]))
	for i := 1; i < len(grid); i++ {
		dc.LineTo(p.x(grid[i]), p.y(values[i]))
	}
	if err := dc.Stroke(); err != nil {
		return err
	}

	if err := p.frame(gg.RGB(0.6, 0.6, 0.6), "wavelength (nm)", "Intensity"); err != nil {
		return err
	}
	return encode(dc, w)
}
