package render

import (
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/RMahshie/spectra/internal/colormap"
	"github.com/RMahshie/spectra/internal/filters"
)

// labelGap is the distance in pixels between a peak and the baseline of
// its name label.
const labelGap = 6.0

// fillAlpha is the opacity of the area under a filled curve (80/255).
const fillAlpha = 80.0 / 255

// FilterPlotOptions controls FilterPlot.
type FilterPlotOptions struct {
	Size  Size
	Fill  bool
	Gamma float64
}

// FilterPlot draws throughput against wavelength for each curve, in the
// color of the curve's peak wavelength (including its out-of-range
// alpha), with a marker and the filter name at the peak.
func FilterPlot(w io.Writer, curves []*filters.Curve, opts FilterPlotOptions) error {
	if len(curves) == 0 {
		return ErrNothingToDraw
	}
	size, err := opts.Size.resolve()
	if err != nil {
		return err
	}
	gamma := opts.Gamma
	if gamma <= 0 {
		gamma = colormap.DefaultGamma
	}

	xlo, xhi, yhi := math.Inf(1), math.Inf(-1), 0.0
	for _, c := range curves {
		lo, hi, err := c.Bounds()
		if err != nil {
			return err
		}
		xlo, xhi = math.Min(xlo, lo), math.Max(xhi, hi)
		for _, v := range c.Throughput {
			yhi = math.Max(yhi, v)
		}
	}
	pad := (xhi - xlo) * 0.02

	dc := gg.NewContext(size.Width, size.Height)
	dc.ClearWithColor(gg.RGB(1, 1, 1))
	p := newPlot(dc, xlo-pad, xhi+pad, 0, yhi*1.1)

	label, err := face(labelFontSize)
	if err != nil {
		return err
	}

	for _, c := range curves {
		col, err := c.Color(gamma)
		if err != nil {
			return err
		}
		peak, err := c.Peak()
		if err != nil {
			return err
		}

		if opts.Fill {
			setColor(dc, col, fillAlpha)
			dc.MoveTo(p.x(c.Wavelengths[0]), p.y(0))
			for i, wl := range c.Wavelengths {
				dc.LineTo(p.x(wl), p.y(c.Throughput[i]))
			}
			dc.LineTo(p.x(c.Wavelengths[len(c.Wavelengths)-1]), p.y(0))
			dc.ClosePath()
			if err := dc.Fill(); err != nil {
				return err
			}
		}

		_, _, _, alpha := col.Float()
		setColor(dc, col, alpha)
		dc.SetLineWidth(3)
		dc.MoveTo(p.x(c.Wavelengths[0]), p.y(c.Throughput[0]))
		for i, wl := range c.Wavelengths[1:] {
			dc.LineTo(p.x(wl), p.y(c.Throughput[i+1]))
		}
		if err := dc.Stroke(); err != nil {
			return err
		}

		px, py := p.x(peak.Wavelength), p.y(peak.Throughput)
		dc.DrawCircle(px, py, 4)
		if err := dc.Fill(); err != nil {
			return err
		}
		dc.SetFont(label)
		dc.DrawStringAnchored(c.Name, px, py-labelGap, 0.5, 0)
	}

	if err := p.frame(gg.RGB(0.3, 0.3, 0.3), "Wavelength (nm)", "Throughput [%]"); err != nil {
		return err
	}
	return encode(dc, w)
}
